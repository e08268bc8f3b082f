package v1

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/domain"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/transport/web/logx"
	"github.com/AaronWhiteTX/PhotoSnap-Pro/internal/transport/web/mw"
)

// Action — закрытое множество действий API. Всё, что не попало в
// switch диспетчера, отсекается единственным default -> 400.
type Action string

const (
	ActionSignup        Action = "signup"
	ActionLogin         Action = "login"
	ActionRequestReset  Action = "request-reset"
	ActionResetPassword Action = "reset-password"
	ActionGetUploadURL  Action = "get-upload-url"
	ActionListPhotos    Action = "list-photos"
	ActionGetDeleteURL  Action = "get-delete-url"
	ActionGetShareURL   Action = "get-share-url"
	ActionCreateShort   Action = "create-short-url"
)

// Общий конверт запроса: поле action + поля конкретного действия.
type actionRequest struct {
	Action      Action `json:"action"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	ResetToken  string `json:"resetToken"`
	NewPassword string `json:"newPassword"`
	FileName    string `json:"fileName"`
	FileType    string `json:"fileType"`
	LongURL     string `json:"longUrl"`
}

// Порты диспетчера. Короткие ссылки — отдельная способность, которую
// диспетчер компонует в общий набор действий, а не дублирует.
type AuthPort interface {
	Signup(ctx context.Context, username, password string) (any, error)
	Login(ctx context.Context, username, password string) (any, error)
	RequestReset(ctx context.Context, username string) (any, error)
	ResetPassword(ctx context.Context, username, token, newPassword string) (any, error)
}

type PhotosPort interface {
	UploadURL(ctx context.Context, username, fileName, fileType string) (any, error)
	List(ctx context.Context, username string) (any, error)
	DeleteURL(ctx context.Context, username, key string) (any, error)
	ShareURL(ctx context.Context, username, key string) (any, error)
}

type ShortLinkPort interface {
	CreateShort(ctx context.Context, longURL string) (any, error)
}

// Dispatcher — единая точка входа POST /api/actions.
type Dispatcher struct {
	Log    *log.Logger
	Auth   AuthPort
	Photos PhotosPort
	Links  ShortLinkPort // nil = действия коротких ссылок выключены
}

func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "v1.dispatch"
	reqID := mw.RequestIDFromCtx(r.Context())

	// Префлайт дополнительно страхуем здесь: тело у OPTIONS пустое,
	// до его разбора доходить нельзя.
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		logx.Error(d.Log, reqID, op, "method not allowed", domain.ErrMethodNotAllowed, "method", r.Method)
		WriteDomainError(w, r, domain.ErrMethodNotAllowed)
		return
	}

	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(d.Log, reqID, op, "bad json", err)
		WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	logx.Info(d.Log, reqID, op, "start", "action", req.Action)

	payload, err := d.dispatch(r.Context(), req)
	if err != nil {
		logx.Error(d.Log, reqID, op, "action failed", err, "action", req.Action)
		WriteDomainError(w, r, err)
		return
	}

	logx.Info(d.Log, reqID, op, "ok", "action", req.Action)
	WriteOK(w, r, payload)
}

// dispatch — исчерпывающий разбор действий; проверка обязательных
// полей живёт здесь, бизнес-правила — в обработчиках.
func (d *Dispatcher) dispatch(ctx context.Context, req actionRequest) (any, error) {
	switch req.Action {
	case ActionSignup:
		if req.Username == "" || req.Password == "" {
			return nil, domain.ErrBadParams
		}
		return d.Auth.Signup(ctx, req.Username, req.Password)

	case ActionLogin:
		if req.Username == "" || req.Password == "" {
			return nil, domain.ErrBadParams
		}
		return d.Auth.Login(ctx, req.Username, req.Password)

	case ActionRequestReset:
		if req.Username == "" {
			return nil, domain.ErrBadParams
		}
		return d.Auth.RequestReset(ctx, req.Username)

	case ActionResetPassword:
		if req.Username == "" || req.ResetToken == "" || req.NewPassword == "" {
			return nil, domain.ErrBadParams
		}
		return d.Auth.ResetPassword(ctx, req.Username, req.ResetToken, req.NewPassword)

	case ActionGetUploadURL:
		if req.Username == "" || req.FileName == "" || req.FileType == "" {
			return nil, domain.ErrBadParams
		}
		return d.Photos.UploadURL(ctx, req.Username, req.FileName, req.FileType)

	case ActionListPhotos:
		if req.Username == "" {
			return nil, domain.ErrBadParams
		}
		return d.Photos.List(ctx, req.Username)

	case ActionGetDeleteURL:
		if req.Username == "" || req.FileName == "" {
			return nil, domain.ErrBadParams
		}
		return d.Photos.DeleteURL(ctx, req.Username, req.FileName)

	case ActionGetShareURL:
		if req.Username == "" || req.FileName == "" {
			return nil, domain.ErrBadParams
		}
		return d.Photos.ShareURL(ctx, req.Username, req.FileName)

	case ActionCreateShort:
		if d.Links == nil || req.LongURL == "" {
			return nil, domain.ErrBadParams
		}
		return d.Links.CreateShort(ctx, req.LongURL)

	default:
		return nil, domain.ErrBadParams
	}
}
