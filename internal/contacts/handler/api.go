package handler

import "github.com/julienschmidt/httprouter"

// API aggregates the application's route groups behind a single
// contracts.Handler.
type API struct {
	Contacts *ContactHandler
	OCR      *OCRHandler
	Review   *ReviewHandler
}

func NewAPI(contacts *ContactHandler, ocr *OCRHandler, review *ReviewHandler) *API {
	return &API{
		Contacts: contacts,
		OCR:      ocr,
		Review:   review,
	}
}

func (a *API) RegisterRoutes(router *httprouter.Router) {
	a.Contacts.RegisterRoutes(router)
	a.OCR.RegisterRoutes(router)
	a.Review.RegisterRoutes(router)
}
