package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Marina-Point-YC/raceday-api/internal/app/billing"
	"github.com/Marina-Point-YC/raceday-api/internal/app/membersync"
	"github.com/Marina-Point-YC/raceday-api/internal/app/notify"
	"github.com/Marina-Point-YC/raceday-api/internal/app/portal"
	"github.com/Marina-Point-YC/raceday-api/internal/app/scores"
	"github.com/Marina-Point-YC/raceday-api/internal/domain"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/memberstore"
)

// Server is the HTTP adapter: thin handlers that decode, delegate to the
// application services, and encode.
type Server struct {
	Sync     *membersync.Service
	Notify   *notify.Service
	Scores   *scores.Service
	Billing  *billing.Service
	Portal   *portal.Service
	Members  memberstore.Store
	ClubID   string // deployment club, used when a request names none
}

// isAdmin reports whether the caller may use admin-only routes: either the
// token carries the admin claim, or the caller's member record carries the
// web_admin role.
func (s *Server) isAdmin(ctx context.Context) (bool, error) {
	id, ok := IdentityFromContext(ctx)
	if !ok {
		return false, nil
	}
	if id.Admin {
		return true, nil
	}
	admins, err := s.Members.ListByRole(ctx, "web_admin")
	if err != nil {
		return false, err
	}
	for _, m := range admins {
		if m.AuthUID != nil && *m.AuthUID == id.Subject {
			return true, nil
		}
	}
	return false, nil
}

// requireAdmin writes the error response and returns false when the caller
// is not an admin.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	ok, err := s.isAdmin(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return false
	}
	if !ok {
		writeError(w, r, http.StatusForbidden, "FORBIDDEN", "admin role required", nil)
		return false
	}
	return true
}

func (s *Server) subject(r *http.Request) domain.SubjectID {
	id, _ := IdentityFromContext(r.Context())
	return domain.SubjectID(id.Subject)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "malformed request body", nil)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type syncMembersRequest struct {
	ClubID string `json:"clubId"`
}

func (s *Server) handleSyncMembers(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	var req syncMembersRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ClubID == "" {
		req.ClubID = s.ClubID
	}

	report, err := s.Sync.Run(r.Context(), req.ClubID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"report": report})
}

type fleetNotificationRequest struct {
	EventID string `json:"eventId"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (s *Server) handleFleetNotification(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	var req fleetNotificationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := s.Notify.SendFleet(r.Context(), notify.FleetRequest{
		EventID: domain.EventID(req.EventID),
		Message: req.Message,
		Type:    req.Type,
		SentBy:  s.subject(r),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"broadcastId":   res.BroadcastID,
		"recipients":    res.Recipients,
		"deliveryCount": res.DeliveryCount,
		"smsSent":       res.SMSSent,
		"pushSent":      res.PushSent,
		"failures":      res.Failures,
	})
}

type directNotificationRequest struct {
	Channel string   `json:"channel"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Message string   `json:"message"`
	EventID string   `json:"eventId"`
}

func (s *Server) handleDirectNotification(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	var req directNotificationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := s.Notify.SendDirect(r.Context(), notify.DirectRequest{
		Channel: req.Channel,
		To:      req.To,
		Subject: req.Subject,
		Message: req.Message,
		SentBy:  s.subject(r),
		EventID: domain.EventID(req.EventID),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"queuedDocIds": res.QueuedDocIDs,
		"failures":     res.Failures,
	})
}

type crewNotificationRequest struct {
	EventID         string `json:"eventId"`
	Message         string `json:"message"`
	OnlyUnconfirmed bool   `json:"onlyUnconfirmed"`
}

func (s *Server) handleCrewNotification(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	var req crewNotificationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := s.Notify.SendCrew(r.Context(), notify.CrewRequest{
		EventID:         domain.EventID(req.EventID),
		Message:         req.Message,
		OnlyUnconfirmed: req.OnlyUnconfirmed,
		SentBy:          s.subject(r),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"notified": res.Notified,
		"smsSent":  res.SMSSent,
		"pushSent": res.PushSent,
		"failures": res.Failures,
	})
}

type submitScoreRequest struct {
	EventID        string `json:"eventId"`
	RegistrationID string `json:"registrationId"`
	RaceNumber     int    `json:"raceNumber"`
	FinishTime     string `json:"finishTime"`
}

func (s *Server) handleSubmitScore(w http.ResponseWriter, r *http.Request) {
	var req submitScoreRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := s.Scores.Submit(r.Context(), scores.Request{
		EventID:        domain.EventID(req.EventID),
		RegistrationID: req.RegistrationID,
		RaceNumber:     req.RaceNumber,
		FinishTime:     req.FinishTime,
		SubmittedBy:    s.subject(r),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"response": resp})
}

type submitScoreBatchRequest struct {
	EventID string               `json:"eventId"`
	Scores  []submitScoreRequest `json:"scores"`
}

func (s *Server) handleSubmitScoreBatch(w http.ResponseWriter, r *http.Request) {
	var req submitScoreBatchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	batch := scores.BatchRequest{
		EventID:     domain.EventID(req.EventID),
		SubmittedBy: s.subject(r),
	}
	for _, sc := range req.Scores {
		batch.Scores = append(batch.Scores, scores.Request{
			EventID:        domain.EventID(req.EventID),
			RegistrationID: sc.RegistrationID,
			RaceNumber:     sc.RaceNumber,
			FinishTime:     sc.FinishTime,
		})
	}

	res, err := s.Scores.SubmitBatch(r.Context(), batch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"submitted": res.Submitted,
		"errors":    res.Errors,
	})
}

type lineItemSyncRequest struct {
	ClubID    string `json:"clubId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

func (s *Server) handleLineItemSync(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	var req lineItemSyncRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ClubID == "" {
		req.ClubID = s.ClubID
	}

	res, err := s.Billing.SyncRange(r.Context(), req.ClubID, req.StartDate, req.EndDate)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"fetched": res.Fetched,
		"synced":  res.Synced,
		"skipped": res.Skipped,
	})
}

type portalSessionRequest struct {
	MembershipNumber string `json:"membershipNumber"`
	InitialView      string `json:"initialView"`
}

func (s *Server) handlePortalSession(w http.ResponseWriter, r *http.Request) {
	var req portalSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	url, err := s.Portal.CreateSession(r.Context(), req.MembershipNumber, req.InitialView)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessionUrl": url})
}
