package api

import "github.com/jaehui/notisync/internal/syncer"

// PassResponse is the body returned for a completed sync pass.
type PassResponse struct {
	Created  int           `json:"created"`
	Skipped  int           `json:"skipped"`
	Archived int           `json:"archived"`
	Failed   int           `json:"failed"`
	Outcomes []OutcomeItem `json:"outcomes"`
}

// OutcomeItem is one per-event outcome in the response.
type OutcomeItem struct {
	ExternalID string `json:"external_id"`
	Title      string `json:"title"`
	Action     string `json:"action"`
	Detail     string `json:"detail,omitempty"`
	Error      string `json:"error,omitempty"`
}

func toPassResponse(res syncer.Result) PassResponse {
	out := PassResponse{
		Created:  res.Created,
		Skipped:  res.Skipped,
		Archived: res.Archived,
		Failed:   res.Failed,
		Outcomes: make([]OutcomeItem, 0, len(res.Outcomes)),
	}
	for _, o := range res.Outcomes {
		item := OutcomeItem{
			ExternalID: o.ExternalID,
			Title:      o.Title,
			Action:     string(o.Action),
			Detail:     o.Detail,
		}
		if o.Err != nil {
			item.Error = o.Err.Error()
		}
		out.Outcomes = append(out.Outcomes, item)
	}
	return out
}
