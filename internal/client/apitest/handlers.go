package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/travelmate/internal/client/models"
	"github.com/go-chi/chi/v5"
)

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (s *Server) ok(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "ok"})
}

func (s *Server) startSessionLocked(w http.ResponseWriter, userID string) string {
	tok := s.issueLocked(userID)
	s.seq++
	rt := fmt.Sprintf("rt-%s-%d", userID, s.seq)
	s.refreshes[rt] = userID
	http.SetCookie(w, &http.Cookie{Name: RefreshCookie, Value: rt, Path: "/", HttpOnly: true})
	return tok
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var in models.RegisterInput
	if err := decode(r, &in); err != nil || in.Email == "" || in.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid registration data"})
		return
	}

	s.mu.Lock()
	if _, exists := s.accounts[in.Email]; exists {
		s.mu.Unlock()
		writeJSON(w, http.StatusConflict, map[string]any{"success": false, "message": "User already exists"})
		return
	}
	u := s.addUserLocked(in.Name, in.Email, in.Password, models.RoleUser)
	tok := s.startSessionLocked(w, u.ID)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, models.AuthResponse{Success: true, User: &u, AccessToken: tok})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in models.LoginInput
	_ = decode(r, &in)

	s.mu.Lock()
	acc, ok := s.accounts[in.Email]
	if !ok || acc.password != in.Password {
		s.mu.Unlock()
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid email or password"})
		return
	}
	u := acc.user
	tok := s.startSessionLocked(w, u.ID)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, models.AuthResponse{Success: true, User: &u, AccessToken: tok})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

	s.mu.Lock()
	delete(s.tokens, tok)
	if c, err := r.Cookie(RefreshCookie); err == nil {
		delete(s.refreshes, c.Value)
	}
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: RefreshCookie, Value: "", Path: "/", MaxAge: -1})
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	delay := s.refreshDelay
	s.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}

	c, err := r.Cookie(RefreshCookie)

	s.mu.Lock()
	defer s.mu.Unlock()

	var userID string
	ok := err == nil && !s.failRefresh
	if ok {
		userID, ok = s.refreshes[c.Value]
	}
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid refresh token"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "accessToken": s.issueLocked(userID)})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	acc := s.userByIDLocked(userID(r.Context()))
	s.mu.Unlock()

	if acc == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "User not found"})
		return
	}
	if strings.HasSuffix(r.URL.Path, "/profile") {
		writeData(w, http.StatusOK, acc.user)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": acc.user})
}

func (s *Server) sendOTP(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	_ = decode(r, &in)

	s.mu.Lock()
	s.otpSent = append(s.otpSent, in.Email)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "OTP sent"})
}

func (s *Server) verifyEmail(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	_ = decode(r, &in)
	if in.OTP != "123456" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid OTP"})
		return
	}

	s.mu.Lock()
	if acc, ok := s.accounts[in.Email]; ok {
		acc.user.EmailVerified = true
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Email verified"})
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	users := make([]models.User, 0, len(s.accounts))
	for _, a := range s.accounts {
		users = append(users, a.user)
	}
	s.mu.Unlock()
	writeData(w, http.StatusOK, users)
}

func (s *Server) searchUsers(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(r.URL.Query().Get("q"))

	s.mu.Lock()
	users := []models.User{}
	for _, a := range s.accounts {
		if q == "" || strings.Contains(strings.ToLower(a.user.Name), q) {
			users = append(users, a.user)
		}
	}
	s.mu.Unlock()
	writeData(w, http.StatusOK, users)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	acc := s.userByIDLocked(chi.URLParam(r, "id"))
	s.mu.Unlock()

	if acc == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "User not found"})
		return
	}
	writeData(w, http.StatusOK, acc.user)
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var in models.ProfileUpdate
	_ = decode(r, &in)

	s.mu.Lock()
	acc := s.userByIDLocked(userID(r.Context()))
	if acc != nil {
		if in.Name != nil {
			acc.user.Name = *in.Name
		}
		if in.Bio != nil {
			acc.user.Bio = *in.Bio
		}
		if in.Location != nil {
			acc.user.Location = *in.Location
		}
		if in.Interests != nil {
			acc.user.Interests = in.Interests
		}
	}
	var u models.User
	if acc != nil {
		u = acc.user
	}
	s.mu.Unlock()

	writeData(w, http.StatusOK, u)
}

func (s *Server) uploadImage(w http.ResponseWriter, r *http.Request) {
	f, hdr, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "image is required"})
		return
	}
	defer f.Close()
	_, _ = io.Copy(io.Discard, f)

	s.mu.Lock()
	acc := s.userByIDLocked(userID(r.Context()))
	var u models.User
	if acc != nil {
		acc.user.Image = "https://cdn.travelmate.test/" + hdr.Filename
		u = acc.user
	}
	s.mu.Unlock()

	writeData(w, http.StatusOK, u)
}

func (s *Server) listPlans(mine bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		me := userID(r.Context())
		dest := strings.ToLower(r.URL.Query().Get("destination"))

		s.mu.Lock()
		out := []models.TravelPlan{}
		for _, p := range s.plans {
			if mine && p.UserID != me {
				continue
			}
			if dest != "" && !strings.Contains(strings.ToLower(p.Destination), dest) {
				continue
			}
			out = append(out, p)
		}
		s.mu.Unlock()
		writeData(w, http.StatusOK, out)
	}
}

func (s *Server) findPlanLocked(id string) *models.TravelPlan {
	for i := range s.plans {
		if s.plans[i].ID == id {
			return &s.plans[i]
		}
	}
	return nil
}

func (s *Server) getPlan(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	p := s.findPlanLocked(chi.URLParam(r, "id"))
	var out models.TravelPlan
	if p != nil {
		out = *p
	}
	s.mu.Unlock()

	if p == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "Travel plan not found"})
		return
	}
	writeData(w, http.StatusOK, out)
}

func (s *Server) createPlan(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "multipart form required"})
		return
	}
	p := models.TravelPlan{
		UserID:      userID(r.Context()),
		Destination: r.FormValue("destination"),
		TravelType:  r.FormValue("travelType"),
		Description: r.FormValue("description"),
		Status:      models.PlanPlanned,
	}
	if _, hdr, err := r.FormFile("image"); err == nil {
		p.Image = "https://cdn.travelmate.test/" + hdr.Filename
	}
	writeData(w, http.StatusCreated, s.AddPlan(p))
}

func (s *Server) completePlan(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	p := s.findPlanLocked(chi.URLParam(r, "id"))
	var out models.TravelPlan
	if p != nil {
		p.Status = models.PlanCompleted
		out = *p
	}
	s.mu.Unlock()

	if p == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "Travel plan not found"})
		return
	}
	writeData(w, http.StatusOK, out)
}

func (s *Server) listJoins(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := append([]models.JoinRequest{}, s.joins...)
	s.mu.Unlock()
	writeData(w, http.StatusOK, out)
}

func (s *Server) createJoin(w http.ResponseWriter, r *http.Request) {
	var in models.JoinRequestInput
	_ = decode(r, &in)

	s.mu.Lock()
	s.seq++
	j := models.JoinRequest{
		ID:           fmt.Sprintf("j-%d", s.seq),
		TravelPlanID: in.TravelPlanID,
		RequesterID:  userID(r.Context()),
		Status:       models.JoinPending,
		Message:      in.Message,
	}
	s.joins = append(s.joins, j)
	s.mu.Unlock()

	writeData(w, http.StatusCreated, j)
}

func (s *Server) respondJoin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status models.JoinRequestStatus `json:"status"`
	}
	_ = decode(r, &in)
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.joins {
		if s.joins[i].ID == id {
			s.joins[i].Status = in.Status
			writeData(w, http.StatusOK, s.joins[i])
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "Join request not found"})
}

func (s *Server) listReviews(w http.ResponseWriter, r *http.Request) {
	target := chi.URLParam(r, "id")

	s.mu.Lock()
	out := []models.Review{}
	for _, rv := range s.reviews {
		if target == "" || rv.RevieweeID == target {
			out = append(out, rv)
		}
	}
	s.mu.Unlock()
	writeData(w, http.StatusOK, out)
}

func (s *Server) createReview(w http.ResponseWriter, r *http.Request) {
	var in models.ReviewInput
	_ = decode(r, &in)
	if in.Rating < 1 || in.Rating > 5 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Rating must be between 1 and 5"})
		return
	}

	s.mu.Lock()
	s.seq++
	rv := models.Review{
		ID:           fmt.Sprintf("r-%d", s.seq),
		ReviewerID:   userID(r.Context()),
		RevieweeID:   in.RevieweeID,
		TravelPlanID: in.TravelPlanID,
		Rating:       in.Rating,
		Comment:      in.Comment,
	}
	s.reviews = append(s.reviews, rv)
	s.mu.Unlock()

	writeData(w, http.StatusCreated, rv)
}

func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Plan models.BillingPlan `json:"plan"`
	}
	_ = decode(r, &in)
	if !in.Plan.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid plan"})
		return
	}
	writeData(w, http.StatusOK, models.CheckoutSession{SessionID: "cs_" + string(in.Plan), URL: "https://pay.travelmate.test/cs_" + string(in.Plan)})
}

func (s *Server) verifyPayment(w http.ResponseWriter, r *http.Request) {
	var in struct {
		SessionID string `json:"sessionId"`
	}
	_ = decode(r, &in)

	s.mu.Lock()
	if acc := s.userByIDLocked(userID(r.Context())); acc != nil && in.SessionID != "" {
		acc.user.SubscriptionStatus = models.SubscriptionActive
	}
	s.mu.Unlock()

	writeData(w, http.StatusOK, models.PaymentVerification{Success: in.SessionID != "", Status: "paid", SubscriptionStatus: models.SubscriptionActive})
}
