package webhook

import "webhook-event-log/internal/deadletter"

// --- Request DTOs ---

type listDeadLettersReq struct {
	Limit int `form:"limit"`
}

func (r listDeadLettersReq) validate() error {
	if r.Limit < 0 || r.Limit > 500 {
		return errInvalidLimit
	}
	return nil
}

// --- Response DTOs ---

type deadLettersResp struct {
	Letters []deadletter.Letter `json:"letters"`
	Count   int                 `json:"count"`
}

func newDeadLettersResp(letters []deadletter.Letter) deadLettersResp {
	if letters == nil {
		letters = []deadletter.Letter{}
	}
	return deadLettersResp{Letters: letters, Count: len(letters)}
}
