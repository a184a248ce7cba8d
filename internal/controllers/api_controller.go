package controllers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"smd/internal/extraction"
	"smd/internal/models"
	"smd/internal/providers"
	"smd/internal/services"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type ApiController struct {
	logger  providers.Logger
	service services.MetricsServiceInterface
	cache   providers.CacheProviderInterface
	session *extraction.Session
}

func NewApiController(logger providers.Logger, service services.MetricsServiceInterface, cache providers.CacheProviderInterface, session *extraction.Session) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		cache:   cache,
		session: session,
	}
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// formPlatform carries the raw form strings for one platform. Followers
// and reach accept human quantity notation ("52K", "2.1M"); engagement is
// a straight float parse and posts a straight int parse, both defaulting
// to 0 on garbage.
type formPlatform struct {
	Followers      string `json:"followers"`
	EngagementRate string `json:"engagement_rate"`
	Reach          string `json:"reach"`
	Posts          string `json:"posts"`
}

type formPayload struct {
	Platforms map[string]formPlatform `json:"platforms"`
}

func (ac *ApiController) ReceiveMetrics(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload formPayload
	err := json.NewDecoder(r.Body).Decode(&payload)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if len(payload.Platforms) == 0 {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	update := &models.PartialUpdate{Platforms: make(map[models.Platform]models.PlatformMetrics)}
	for name, fields := range payload.Platforms {
		platform := models.Platform(name)
		if !models.KnownPlatform(platform) {
			continue
		}
		update.Platforms[platform] = models.PlatformMetrics{
			Followers:      models.ParseQuantity(fields.Followers),
			EngagementRate: cast.ToFloat64(fields.EngagementRate),
			Reach:          models.ParseQuantity(fields.Reach),
			Posts:          float64(cast.ToInt(fields.Posts)),
		}
	}
	if len(update.Platforms) == 0 {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	state := ac.service.Merge(update)

	gson, err := json.Marshal(state)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(gson)
}

type chatPayload struct {
	Message string `json:"message"`
}

func (ac *ApiController) Chat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload chatPayload
	err := json.NewDecoder(r.Body).Decode(&payload)
	if err != nil || payload.Message == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	reply, err := ac.session.HandleMessage(r.Context(), payload.Message)
	if errors.Is(err, extraction.ErrBusy) {
		writeJSON(w, http.StatusTooManyRequests, extraction.Reply{
			Text: "I'm still working on your previous update, give me a second.",
		})
		return
	}
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, reply)
}

func (ac *ApiController) GetState(w http.ResponseWriter, r *http.Request) {
	key := fmt.Sprintf("state:%d", ac.service.Generation())
	ac.serveFromCacheOrCompute(w, key, func() (any, error) {
		return ac.service.Snapshot(), nil
	})
}

func (ac *ApiController) GetSummary(w http.ResponseWriter, r *http.Request) {
	key := fmt.Sprintf("summary:%d", ac.service.Generation())
	ac.serveFromCacheOrCompute(w, key, func() (any, error) {
		return services.Summarize(ac.service.Snapshot()), nil
	})
}

func (ac *ApiController) Export(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("format") == "csv" {
		ac.exportCSV(w)
		return
	}
	key := fmt.Sprintf("export:%d", ac.service.Generation())
	ac.serveFromCacheOrCompute(w, key, func() (any, error) {
		return services.ExportView(ac.service.Snapshot()), nil
	})
}

func (ac *ApiController) exportCSV(w http.ResponseWriter) {
	view := services.ExportView(ac.service.Snapshot())

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="metrics.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"platform", "followers", "engagement_rate", "reach", "posts"})
	for _, row := range view.Rows {
		_ = cw.Write([]string{
			string(row.Platform),
			formatNumber(row.Followers),
			formatNumber(row.EngagementRate),
			formatNumber(row.Reach),
			formatNumber(row.Posts),
		})
	}
	_ = cw.Write([]string{})
	_ = cw.Write([]string{"metric", "value"})
	_ = cw.Write([]string{"total_followers", formatNumber(view.Summary.TotalFollowers)})
	_ = cw.Write([]string{"average_engagement", view.Summary.AverageEngagement})
	_ = cw.Write([]string{"total_reach", formatNumber(view.Summary.TotalReach)})
	_ = cw.Write([]string{"growth_rate", view.Summary.GrowthRate})
	cw.Flush()
}

func (ac *ApiController) Reset(w http.ResponseWriter, r *http.Request) {
	ac.service.Reset()
	ac.logger.Infof(providers.TypeApp, "State reset to defaults")
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
