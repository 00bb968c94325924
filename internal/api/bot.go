package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "pcb-inspector/internal/application"
	"pcb-inspector/internal/container"
	"pcb-inspector/internal/domain/entity"
	"pcb-inspector/internal/domain/port"
	"pcb-inspector/internal/infrastructure/describer"
)

const (
	msgStart = `👋 Welcome to the PCB Defect Detector!

This bot uses a trained YOLOv8 model to identify common defects on Printed Circuit Boards.

📋 Commands:
/defects — what the model detects
/signup <username> <password> — create an account
/login <username> <password> — log in
/detect — open the detector
/logout — log out
/help — help`

	msgHelp = `ℹ️ How to use the bot:

1️⃣ Log in with /login <username> <password> (or create an account with /signup)
2️⃣ Send a photo of a PCB (or the image as a file: jpg, png, bmp, tiff)
3️⃣ You get the image with detected defects and suggested repair steps

📋 Commands:
/defects — defect catalogue
/detect — open the detector
/cancel — back to the main menu
/logout — log out`

	msgAwaitingPhoto    = "📸 Upload an image of a Printed Circuit Board to detect any defects."
	msgLoginFirst       = "🔒 You must log in to use the detector. Use /login <username> <password>."
	msgUsageSignUp      = "Usage: /signup <username> <password>"
	msgUsageLogIn       = "Usage: /login <username> <password>"
	msgSignedUp         = "✅ Account created successfully! You can now log in."
	msgLoggedOut        = "👋 You have been logged out."
	msgBackHome         = "🏠 Back to the main menu. Send /help for commands."
	msgUnknownCommand   = "❓ Unknown command. Use /help for help."
	msgProcessing       = "⏳ Running detection..."
	msgAnnotatedCaption = "Image with Detected Defects"
	msgModelUnavailable = "⚠️ The detection model is not available. Please try again later."
	msgProcessingError  = "⚠️ Could not read the image. Please upload a jpg, png, bmp or tiff file."
	msgInvalidLogin     = "❌ Invalid username or password"
	msgEmptyCredentials = "❌ Username and password cannot be empty."
	msgUserExists       = "❌ Username already exists. Please choose a different one."
	msgNotAllowed       = "⚠️ That action is not available right now."
)

// Максимальная длина текста одного сообщения Telegram
const maxMessageLen = 4096

// botAPI часть Telegram API, которой пользуется бот
type botAPI interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Bot представляет Telegram-бота
type Bot struct {
	api      botAPI
	client   *http.Client
	services *container.Container
}

// NewBot создаёт нового бота
func NewBot(token string, services *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	return newBot(api, services), nil
}

func newBot(api botAPI, services *container.Container) *Bot {
	return &Bot{
		api:      api,
		client:   &http.Client{Timeout: time.Minute},
		services: services,
	}
}

// Run запускает основной цикл обработки сообщений до отмены контекста
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	sessionID := strconv.FormatInt(msg.Chat.ID, 10)

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, sessionID)
		return
	}

	// Обработка фото и картинок, отправленных файлом
	if len(msg.Photo) > 0 || isImageDocument(msg.Document) {
		b.handlePhoto(ctx, msg, sessionID)
		return
	}

	// Текстовое сообщение (не команда)
	session, err := b.services.SessionService.Get(ctx, sessionID)
	if err != nil {
		log.Printf("Error getting session: %v", err)
		return
	}
	if session.Effective() == entity.PagePrediction {
		b.sendMessage(msg.Chat.ID, msgAwaitingPhoto)
		return
	}
	b.sendMessage(msg.Chat.ID, msgLoginFirst)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, sessionID string) {
	sessions := b.services.SessionService

	switch msg.Command() {
	case "start", "home":
		if _, err := sessions.Navigate(ctx, sessionID, entity.EventOpenHome); err != nil {
			log.Printf("Error navigating home: %v", err)
		}
		b.sendMessage(msg.Chat.ID, msgStart)
		b.sendCatalogue(msg.Chat.ID)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "defects":
		b.sendCatalogue(msg.Chat.ID)

	case "signup":
		b.forgetCredentials(msg)
		username, password, ok := parseCredentials(msg.CommandArguments())
		if !ok {
			b.sendMessage(msg.Chat.ID, msgUsageSignUp)
			return
		}
		if _, err := sessions.SignUp(ctx, sessionID, username, password); err != nil {
			b.sendMessage(msg.Chat.ID, userMessage(err))
			return
		}
		b.sendMessage(msg.Chat.ID, msgSignedUp)

	case "login":
		b.forgetCredentials(msg)
		username, password, ok := parseCredentials(msg.CommandArguments())
		if !ok {
			b.sendMessage(msg.Chat.ID, msgUsageLogIn)
			return
		}
		session, err := sessions.LogIn(ctx, sessionID, username, password)
		if err != nil {
			b.sendMessage(msg.Chat.ID, userMessage(err))
			return
		}
		b.sendMessage(msg.Chat.ID, fmt.Sprintf("✅ Logged in as %s\n\n%s", session.Username, msgAwaitingPhoto))

	case "logout":
		if _, err := sessions.LogOut(ctx, sessionID); err != nil {
			log.Printf("Error logging out: %v", err)
		}
		b.sendMessage(msg.Chat.ID, msgLoggedOut)

	case "detect":
		if _, err := sessions.Navigate(ctx, sessionID, entity.EventOpenDetector); err != nil {
			b.sendMessage(msg.Chat.ID, msgLoginFirst)
			return
		}
		b.sendMessage(msg.Chat.ID, msgAwaitingPhoto)

	case "cancel":
		// После входа отмена возвращает к детектору, иначе на главную
		session, err := sessions.Get(ctx, sessionID)
		if err != nil {
			log.Printf("Error getting session: %v", err)
			return
		}
		if session.LoggedIn {
			if _, err := sessions.Navigate(ctx, sessionID, entity.EventOpenDetector); err != nil {
				log.Printf("Error opening detector: %v", err)
			}
			b.sendMessage(msg.Chat.ID, msgAwaitingPhoto)
			return
		}
		if _, err := sessions.Navigate(ctx, sessionID, entity.EventOpenHome); err != nil {
			log.Printf("Error navigating home: %v", err)
		}
		b.sendMessage(msg.Chat.ID, msgBackHome)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
}

// handlePhoto обрабатывает входящее фото
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, sessionID string) {
	session, err := b.services.SessionService.Get(ctx, sessionID)
	if err != nil {
		log.Printf("Error getting session: %v", err)
		return
	}
	if session.Effective() != entity.PagePrediction {
		b.sendMessage(msg.Chat.ID, msgLoginFirst)
		return
	}

	b.sendMessage(msg.Chat.ID, msgProcessing)

	imageData, err := b.downloadFile(fileIDOf(msg))
	if err != nil {
		log.Printf("Error downloading photo: %v", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	out, err := b.services.InspectionService.Inspect(ctx, sessionID, imageData)
	if err != nil {
		log.Printf("Error inspecting image (%d bytes): %v", len(imageData), err)
		b.sendMessage(msg.Chat.ID, userMessage(err))
		return
	}

	if len(out.Highlighted) > 0 {
		photo := tgbotapi.NewPhoto(msg.Chat.ID, tgbotapi.FileBytes{Name: "defects.jpg", Bytes: out.Highlighted})
		photo.Caption = msgAnnotatedCaption
		if _, err := b.api.Send(photo); err != nil {
			log.Printf("Error sending photo: %v", err)
		}
	}

	desc, err := b.services.Describer.Describe(ctx, out.Result, out.Report)
	if err != nil {
		log.Printf("Error describing report: %v", err)
		return
	}
	for _, chunk := range splitMessage(desc.Text, maxMessageLen) {
		b.sendMessage(msg.Chat.ID, chunk)
	}
}

// sendCatalogue отправляет описание всех дефектов, которые находит модель
func (b *Bot) sendCatalogue(chatID int64) {
	text, err := describer.Catalogue(b.services.Table)
	if err != nil {
		log.Printf("Error rendering catalogue: %v", err)
		return
	}
	for _, chunk := range splitMessage(text, maxMessageLen) {
		b.sendMessage(chatID, chunk)
	}
}

// forgetCredentials удаляет из чата сообщение с паролем
func (b *Bot) forgetCredentials(msg *tgbotapi.Message) {
	del := tgbotapi.NewDeleteMessage(msg.Chat.ID, msg.MessageID)
	if _, err := b.api.Request(del); err != nil {
		log.Printf("Error deleting credentials message: %v", err)
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	fileURL, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	resp, err := b.client.Get(fileURL)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

// fileIDOf берёт фото максимального разрешения или документ
func fileIDOf(msg *tgbotapi.Message) string {
	if len(msg.Photo) > 0 {
		return msg.Photo[len(msg.Photo)-1].FileID
	}
	if msg.Document != nil {
		return msg.Document.FileID
	}
	return ""
}

func isImageDocument(doc *tgbotapi.Document) bool {
	return doc != nil && strings.HasPrefix(doc.MimeType, "image/")
}

// parseCredentials разбирает "<username> <password>"
func parseCredentials(args string) (username, password string, ok bool) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return "", "", false
	}
	return fields[0], fields[1], true
}

// userMessage переводит ошибку в понятное пользователю сообщение
func userMessage(err error) string {
	switch {
	case errors.Is(err, app.ErrModelUnavailable):
		return msgModelUnavailable
	case errors.Is(err, app.ErrMalformedImage):
		return msgProcessingError
	case errors.Is(err, app.ErrNotAuthenticated):
		return msgLoginFirst
	case errors.Is(err, app.ErrInvalidCredentials):
		return msgInvalidLogin
	case errors.Is(err, app.ErrEmptyCredentials):
		return msgEmptyCredentials
	case errors.Is(err, port.ErrUserExists):
		return msgUserExists
	case errors.Is(err, entity.ErrTransitionNotAllowed):
		return msgNotAllowed
	default:
		return fmt.Sprintf("⚠️ An error occurred: %v", err)
	}
}

// splitMessage режет длинный текст по строкам, не длиннее limit байт
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var cur strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > limit {
			if cur.Len() > 0 {
				chunks = append(chunks, cur.String())
				cur.Reset()
			}
			cut := limit
			// не режем посреди символа UTF-8
			for cut > 0 && line[cut]&0xC0 == 0x80 {
				cut--
			}
			chunks = append(chunks, line[:cut])
			line = line[cut:]
		}
		if cur.Len()+len(line) > limit {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
		cur.WriteString(line)
	}
	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}
