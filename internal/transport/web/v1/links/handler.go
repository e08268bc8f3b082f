package links

import (
	"context"

	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/shortlink"
)

// Handler адаптирует сервис коротких ссылок к набору действий API.
type Handler struct {
	Links *shortlink.Service
}

type createShortResponse struct {
	ShortURL string `json:"shortUrl"`
	ShortID  string `json:"shortId"`
}

func (h *Handler) CreateShort(ctx context.Context, longURL string) (any, error) {
	link, err := h.Links.Create(ctx, longURL)
	if err != nil {
		return nil, err
	}
	return createShortResponse{
		ShortURL: h.Links.ShortURL(link.ShortID),
		ShortID:  link.ShortID,
	}, nil
}
