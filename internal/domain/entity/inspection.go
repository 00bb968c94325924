package entity

// InspectionResult хранит итог анализа изображения.
type InspectionResult struct {
	ImageWidth  int         `json:"image_width"`  // ширина изображения
	ImageHeight int         `json:"image_height"` // высота изображения
	Detections  []Detection `json:"detections"`   // найденные дефекты, по убыванию уверенности
	HasDefects  bool        `json:"has_defects"`  // флаг наличия дефектов
}

// DetectOptions параметры вызова модели.
type DetectOptions struct {
	ImageSize           int     // сторона входа модели в пикселях
	ConfidenceThreshold float64 // минимальная уверенность
	IoUThreshold        float64 // порог подавления пересекающихся рамок
}

// DefaultDetectOptions совпадают с параметрами, на которых обучалась модель.
func DefaultDetectOptions() DetectOptions {
	return DetectOptions{
		ImageSize:           640,
		ConfidenceThreshold: 0.25,
		IoUThreshold:        0.7,
	}
}

// Description — текстовое описание результата проверки.
type Description struct {
	Text string
}
