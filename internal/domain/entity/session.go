package entity

import (
	"errors"
	"fmt"
)

// Page страница, на которой находится пользователь
type Page string

const (
	PageHome       Page = "home"       // Главная: описание дефектов
	PageSignUp     Page = "signup"     // Регистрация
	PageLogIn      Page = "login"      // Вход
	PagePrediction Page = "prediction" // Детектор, только после входа
)

// EventKind действие пользователя, меняющее страницу
type EventKind string

const (
	EventOpenHome     EventKind = "open_home"
	EventOpenSignUp   EventKind = "open_signup"
	EventOpenLogIn    EventKind = "open_login"
	EventOpenDetector EventKind = "open_detector"
	EventSignedUp     EventKind = "signed_up"
	EventLoggedIn     EventKind = "logged_in"
	EventLoggedOut    EventKind = "logged_out"
)

// Event событие перехода. Username нужен только для EventLoggedIn.
type Event struct {
	Kind     EventKind
	Username string
}

// ErrTransitionNotAllowed переход не определён для текущей страницы
var ErrTransitionNotAllowed = errors.New("transition not allowed")

// Session состояние одного клиента (чат Telegram или токен HTTP)
type Session struct {
	ID       string `json:"id"`
	Page     Page   `json:"page"`
	LoggedIn bool   `json:"logged_in"`
	Username string `json:"username,omitempty"`
}

// NewSession создаёт сессию на главной странице
func NewSession(id string) *Session {
	return &Session{
		ID:   id,
		Page: PageHome,
	}
}

// Effective возвращает страницу, которую нужно показать.
// Детектор без входа в систему отправляет на главную.
func (s Session) Effective() Page {
	switch s.Page {
	case PageHome, PageSignUp, PageLogIn:
		return s.Page
	case PagePrediction:
		if s.LoggedIn {
			return PagePrediction
		}
	}
	return PageHome
}

// Transition чистая функция переходов между страницами.
func Transition(s Session, ev Event) (Session, error) {
	from := s.Effective()
	next := s
	next.Page = from

	// Переходы, доступные с любой страницы после входа
	if s.LoggedIn {
		switch ev.Kind {
		case EventOpenDetector:
			next.Page = PagePrediction
			return next, nil
		case EventLoggedOut:
			next.Page = PageHome
			next.LoggedIn = false
			next.Username = ""
			return next, nil
		}
	}

	switch from {
	case PageHome:
		switch ev.Kind {
		case EventOpenSignUp:
			next.Page = PageSignUp
			return next, nil
		case EventOpenLogIn:
			next.Page = PageLogIn
			return next, nil
		case EventOpenHome:
			return next, nil
		}
	case PageSignUp:
		switch ev.Kind {
		case EventOpenHome:
			next.Page = PageHome
			return next, nil
		case EventOpenLogIn, EventSignedUp:
			next.Page = PageLogIn
			return next, nil
		}
	case PageLogIn:
		switch ev.Kind {
		case EventOpenHome:
			next.Page = PageHome
			return next, nil
		case EventOpenSignUp:
			next.Page = PageSignUp
			return next, nil
		case EventLoggedIn:
			if ev.Username == "" {
				return s, fmt.Errorf("%w: %s requires a username", ErrTransitionNotAllowed, ev.Kind)
			}
			next.Page = PagePrediction
			next.LoggedIn = true
			next.Username = ev.Username
			return next, nil
		}
	case PagePrediction:
		if ev.Kind == EventOpenHome {
			next.Page = PageHome
			return next, nil
		}
	}

	return s, fmt.Errorf("%w: %s from %s", ErrTransitionNotAllowed, ev.Kind, from)
}

// AllEventKinds перечисляет все виды событий
func AllEventKinds() []EventKind {
	return []EventKind{
		EventOpenHome, EventOpenSignUp, EventOpenLogIn, EventOpenDetector,
		EventSignedUp, EventLoggedIn, EventLoggedOut,
	}
}

// Reachable перечисляет страницы, достижимые с главной.
func Reachable() []Page {
	type node struct {
		page     Page
		loggedIn bool
	}
	start := Session{Page: PageHome}
	seen := map[node]bool{{PageHome, false}: true}
	pages := []Page{PageHome}
	queue := []Session{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, kind := range AllEventKinds() {
			next, err := Transition(cur, Event{Kind: kind, Username: "user"})
			if err != nil {
				continue
			}
			n := node{next.Page, next.LoggedIn}
			if seen[n] {
				continue
			}
			seen[n] = true
			if !containsPage(pages, next.Page) {
				pages = append(pages, next.Page)
			}
			queue = append(queue, next)
		}
	}
	return pages
}

// ParseEventKind проверяет строку, пришедшую от клиента
func ParseEventKind(raw string) (EventKind, bool) {
	for _, k := range AllEventKinds() {
		if string(k) == raw {
			return k, true
		}
	}
	return "", false
}

func containsPage(pages []Page, p Page) bool {
	for _, x := range pages {
		if x == p {
			return true
		}
	}
	return false
}
