package vision

import "errors"

// ErrBackendDisabled бэкенд не собран в этот бинарник
var ErrBackendDisabled = errors.New("gocv build tag is not enabled")

// ErrImageTooLarge объявленный размер изображения больше maxPixels
var ErrImageTooLarge = errors.New("image dimensions exceed the pixel limit")
