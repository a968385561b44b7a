package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"travel_planner/internal/domain"
)

const dateLayout = "2006-01-02"

type Catalog interface {
	SearchDestinations(ctx context.Context, query string) ([]domain.Destination, error)
	ListDestinations(ctx context.Context, page int) (domain.DestinationsPage, error)
	ListAttractions(ctx context.Context, destination string) ([]domain.Attraction, error)
	ListActivities(ctx context.Context) ([]domain.Activity, error)
}

type Reviews interface {
	SubmitReview(ctx context.Context, in domain.NewReview) (domain.Review, error)
	ListReviews(ctx context.Context, attractionID int64) ([]domain.Review, error)
}

type Itineraries interface {
	Create(ctx context.Context, in domain.NewItinerary) (domain.Itinerary, error)
	Get(ctx context.Context, id int64) (domain.Itinerary, error)
	ListForUser(ctx context.Context, userID int64) ([]domain.Itinerary, error)
}

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (int64, error)
}

type Auth interface {
	Authenticator
	Register(ctx context.Context, username, password string) (domain.User, string, error)
	Login(ctx context.Context, username, password string) (domain.User, string, error)
	Logout(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, token string) (domain.User, error)
}

type Handlers struct {
	Catalog     Catalog
	Reviews     Reviews
	Itineraries Itineraries
	Auth        Auth

	SessionTTL   time.Duration
	CookieSecure bool
}

var validate = validator.New()

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/api", func(r chi.Router) {
		r.Use(Session(h.Auth))

		r.Get("/destinations/search", h.searchDestinations)
		r.Get("/destinations", h.listDestinations)
		r.Get("/attractions/{destination}", h.listAttractions)
		r.Get("/attractions/{attractionID}/reviews", h.listReviews)
		r.With(RequireSession).Post("/attractions/{attractionID}/reviews", h.submitReview)
		r.Get("/activities", h.listActivities)

		r.With(RequireSession).Post("/itineraries", h.createItinerary)
		r.With(RequireSession).Get("/itineraries", h.listItineraries)
		r.Get("/itineraries/{id}", h.getItinerary)

		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Post("/logout", h.logout)
		r.With(RequireSession).Get("/user", h.currentUser)
	})
}

// ---- request DTOs ----

type reviewRequest struct {
	Content string `json:"content" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
}

type itineraryRequest struct {
	Destination   string   `json:"destination" validate:"required"`
	StartDate     string   `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate       string   `json:"endDate" validate:"required,datetime=2006-01-02"`
	Activities    []string `json:"activities"`
	AttractionIDs []int64  `json:"attractionIds" validate:"dive,gt=0"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ---- response views ----

type destinationView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ImageURL    string `json:"imageUrl"`
	Description string `json:"description"`
}

type destinationsPageView struct {
	Items      []destinationView `json:"items"`
	NextCursor *int              `json:"nextCursor"`
}

type attractionView struct {
	ID              int64   `json:"id"`
	DestinationID   int64   `json:"destinationId"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Rating          float64 `json:"rating"`
	VisitDuration   string  `json:"visitDuration"`
	BestTimeToVisit string  `json:"bestTimeToVisit"`
	ImageURL        string  `json:"imageUrl"`
	ReviewSummary   *string `json:"reviewSummary"`
	TotalReviews    int     `json:"totalReviews"`
}

type reviewView struct {
	ID             int64     `json:"id"`
	AttractionID   int64     `json:"attractionId"`
	UserID         *int64    `json:"userId"`
	Content        string    `json:"content"`
	Rating         int       `json:"rating"`
	Sentiment      *string   `json:"sentiment"`
	SentimentScore *int      `json:"sentimentScore"`
	CreatedAt      time.Time `json:"createdAt"`
}

type activityView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ImageURL    string `json:"imageUrl"`
	Description string `json:"description"`
}

type itineraryView struct {
	ID            int64     `json:"id"`
	UserID        *int64    `json:"userId"`
	Destination   string    `json:"destination"`
	StartDate     string    `json:"startDate"`
	EndDate       string    `json:"endDate"`
	Activities    []string  `json:"activities"`
	AttractionIDs []int64   `json:"attractionIds"`
	CreatedAt     time.Time `json:"createdAt"`
}

type userView struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

func toDestinationViews(ds []domain.Destination) []destinationView {
	out := make([]destinationView, 0, len(ds))
	for _, d := range ds {
		out = append(out, destinationView{ID: d.ID, Name: d.Name, ImageURL: d.ImageURL, Description: d.Description})
	}
	return out
}

func toAttractionViews(as []domain.Attraction) []attractionView {
	out := make([]attractionView, 0, len(as))
	for _, a := range as {
		out = append(out, attractionView{
			ID:              a.ID,
			DestinationID:   a.DestinationID,
			Name:            a.Name,
			Description:     a.Description,
			Rating:          a.Rating,
			VisitDuration:   a.VisitDuration,
			BestTimeToVisit: a.BestTimeToVisit,
			ImageURL:        a.ImageURL,
			ReviewSummary:   a.ReviewSummary,
			TotalReviews:    a.TotalReviews,
		})
	}
	return out
}

func toReviewView(r domain.Review) reviewView {
	label, score := domain.SentimentColumns(r.Sentiment)
	return reviewView{
		ID:             r.ID,
		AttractionID:   r.AttractionID,
		UserID:         r.UserID,
		Content:        r.Content,
		Rating:         r.Rating,
		Sentiment:      label,
		SentimentScore: score,
		CreatedAt:      r.CreatedAt,
	}
}

func toItineraryView(it domain.Itinerary) itineraryView {
	acts := it.Activities
	if acts == nil {
		acts = []string{}
	}
	ids := it.AttractionIDs
	if ids == nil {
		ids = []int64{}
	}
	return itineraryView{
		ID:            it.ID,
		UserID:        it.UserID,
		Destination:   it.Destination,
		StartDate:     it.StartDate.Format(dateLayout),
		EndDate:       it.EndDate.Format(dateLayout),
		Activities:    acts,
		AttractionIDs: ids,
		CreatedAt:     it.CreatedAt,
	}
}

func toUserView(u domain.User) userView {
	return userView{ID: u.ID, Username: u.Username, CreatedAt: u.CreatedAt}
}

// ---- catalog ----

func (h *Handlers) searchDestinations(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("query"))
	if err := validate.Var(q, "required,min=2"); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid query", "query must be at least 2 characters")
		return
	}
	out, err := h.Catalog.SearchDestinations(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, toDestinationViews(out))
}

func (h *Handlers) listDestinations(w http.ResponseWriter, r *http.Request) {
	page := 1
	if ps := r.URL.Query().Get("page"); ps != "" {
		p, err := strconv.Atoi(ps)
		if err != nil || p < 1 {
			writeProblem(w, http.StatusBadRequest, "Invalid page", "page must be a positive integer")
			return
		}
		page = p
	}
	out, err := h.Catalog.ListDestinations(r.Context(), page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, destinationsPageView{Items: toDestinationViews(out.Items), NextCursor: out.NextCursor})
}

func (h *Handlers) listAttractions(w http.ResponseWriter, r *http.Request) {
	dest := strings.TrimSpace(chi.URLParam(r, "destination"))
	if dest == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid destination", "destination is required")
		return
	}
	out, err := h.Catalog.ListAttractions(r.Context(), dest)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, toAttractionViews(out))
}

func (h *Handlers) listActivities(w http.ResponseWriter, r *http.Request) {
	out, err := h.Catalog.ListActivities(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]activityView, 0, len(out))
	for _, a := range out {
		views = append(views, activityView{ID: a.ID, Name: a.Name, ImageURL: a.ImageURL, Description: a.Description})
	}
	writeCached(w, r, views)
}

// ---- reviews ----

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := attractionID(w, r)
	if !ok {
		return
	}
	out, err := h.Reviews.ListReviews(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]reviewView, 0, len(out))
	for _, rv := range out {
		views = append(views, toReviewView(rv))
	}
	writeCached(w, r, views)
}

func (h *Handlers) submitReview(w http.ResponseWriter, r *http.Request) {
	id, ok := attractionID(w, r)
	if !ok {
		return
	}
	var req reviewRequest
	if !decode(w, r, &req) {
		return
	}
	uid, _ := UserID(r.Context())
	created, err := h.Reviews.SubmitReview(r.Context(), domain.NewReview{
		AttractionID: id,
		UserID:       &uid,
		Content:      req.Content,
		Rating:       req.Rating,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReviewView(created))
}

func attractionID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "attractionID"), 10, 64)
	if err != nil || id <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "attraction id must be a positive integer")
		return 0, false
	}
	return id, true
}

// ---- itineraries ----

func (h *Handlers) createItinerary(w http.ResponseWriter, r *http.Request) {
	var req itineraryRequest
	if !decode(w, r, &req) {
		return
	}
	// Layout already checked by the validator.
	start, _ := time.Parse(dateLayout, req.StartDate)
	end, _ := time.Parse(dateLayout, req.EndDate)
	uid, _ := UserID(r.Context())

	it, err := h.Itineraries.Create(r.Context(), domain.NewItinerary{
		UserID:        &uid,
		Destination:   req.Destination,
		StartDate:     start,
		EndDate:       end,
		Activities:    req.Activities,
		AttractionIDs: req.AttractionIDs,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toItineraryView(it))
}

func (h *Handlers) listItineraries(w http.ResponseWriter, r *http.Request) {
	uid, _ := UserID(r.Context())
	its, err := h.Itineraries.ListForUser(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]itineraryView, 0, len(its))
	for _, it := range its {
		views = append(views, toItineraryView(it))
	}
	writeCached(w, r, views)
}

func (h *Handlers) getItinerary(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive integer")
		return
	}
	it, err := h.Itineraries.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, toItineraryView(it))
}

// ---- auth ----

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decode(w, r, &req) {
		return
	}
	u, token, err := h.Auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	h.setSession(w, token)
	writeJSON(w, http.StatusCreated, toUserView(u))
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}
	u, token, err := h.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	h.setSession(w, token)
	writeJSON(w, http.StatusOK, toUserView(u))
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if err := h.Auth.Logout(r.Context(), c.Value); err != nil {
			writeError(w, err)
			return
		}
	}
	h.clearSession(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) currentUser(w http.ResponseWriter, r *http.Request) {
	c, _ := r.Cookie(sessionCookie)
	u, err := h.Auth.CurrentUser(r.Context(), c.Value)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserView(u))
}

func (h *Handlers) setSession(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ---- encoding ----

// decode reads a JSON body into dst and runs its validate tags. It writes the 400 itself.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "request body must be valid JSON")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Validation failed", validationDetail(err))
		return false
	}
	return true
}

func validationDetail(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		parts = append(parts, fe.Field()+" failed "+fe.Tag())
	}
	return strings.Join(parts, "; ")
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeProblem(w, http.StatusBadRequest, "Invalid input", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "resource not found")
	case errors.Is(err, domain.ErrConflict):
		writeProblem(w, http.StatusConflict, "Conflict", "resource already exists")
	case errors.Is(err, domain.ErrUnauthorized):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "login required")
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid username or password")
	case errors.Is(err, domain.ErrSummaryUnavailable):
		writeProblem(w, http.StatusBadGateway, "Summary unavailable", "review saved but the summary could not be refreshed")
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCached writes a 200 with a weak ETag, or 304 when the client already has it.
func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write JSON body")
	}
}
