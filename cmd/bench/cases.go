// README: Smoke and load cases for bookings, fares, drivers, and rate limiting.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	redis *redis.Client

	// bookingID is the booking created by the create case and reused by
	// the get, update and delete cases that follow.
	bookingID string
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name  string
	Focus string
	Run   func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-7s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.redis != nil {
		_ = r.redis.Close()
	}
	return results
}

func sampleBooking() map[string]any {
	return map[string]any{
		"name":     "Bench Rider",
		"phone":    "9999999999",
		"service":  "morning",
		"hours":    "10",
		"location": "Bench Street",
		"date":     "2030-01-01",
		"time":     "09:00",
	}
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	return []TestCase{
		{
			Name:  "Env: Redis connect",
			Focus: "shared rate limit store reachable",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: "SKIP", Note: "redis not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				return Result{Status: "PASS"}
			},
		},
		httpCaseMethod("Health", http.MethodGet, base+"/health", nil, []int{200}),
		{
			Name:  "Fares: quote morning 10h = 1400",
			Focus: "fare engine",
			Run: func(ctx context.Context, r *Runner) Result {
				var q struct {
					TotalFare float64 `json:"totalFare"`
				}
				status, latency, err := r.doJSON(ctx, http.MethodGet, base+"/api/fares/quote?serviceType=morning&hours=10", nil, &q)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if status != http.StatusOK || q.TotalFare != 1400 {
					return Result{Status: "FAIL", Latency: latency, Note: fmt.Sprintf("status=%d totalFare=%v", status, q.TotalFare)}
				}
				return Result{Status: "PASS", Latency: latency}
			},
		},
		httpCaseMethod("Fares: rates", http.MethodGet, base+"/api/fares/rates", nil, []int{200}),
		{
			Name:  "Bookings: create",
			Focus: "booking submission",
			Run: func(ctx context.Context, r *Runner) Result {
				var resp struct {
					Booking struct {
						ID            string `json:"id"`
						Status        string `json:"status"`
						EstimatedFare string `json:"estimatedFare"`
					} `json:"booking"`
				}
				status, latency, err := r.doJSON(ctx, http.MethodPost, base+"/api/bookings", sampleBooking(), &resp)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if status != http.StatusCreated || resp.Booking.ID == "" || resp.Booking.Status != "pending" {
					return Result{Status: "FAIL", Latency: latency, Note: fmt.Sprintf("status=%d booking=%+v", status, resp.Booking)}
				}
				r.bookingID = resp.Booking.ID
				return Result{Status: "PASS", Latency: latency, Note: fmt.Sprintf("id=%s fare=%s", resp.Booking.ID, resp.Booking.EstimatedFare)}
			},
		},
		httpCaseMethod("Bookings: create missing fields", http.MethodPost, base+"/api/bookings", map[string]any{"name": "x"}, []int{400}),
		httpCaseMethod("Bookings: list", http.MethodGet, base+"/api/bookings", nil, []int{200}),
		r.bookingCase("Bookings: get", http.MethodGet, nil, []int{200}),
		r.bookingCase("Bookings: confirm", http.MethodPatch, map[string]any{"status": "confirmed"}, []int{200}),
		httpCaseMethod("Bookings: stats", http.MethodGet, base+"/api/bookings/stats", nil, []int{200}),
		r.bookingCase("Bookings: delete", http.MethodDelete, nil, []int{200}),
		r.bookingCase("Bookings: delete again", http.MethodDelete, nil, []int{404}),
		{
			Name:  "Bookings: concurrent creates get unique ids",
			Focus: "single-writer file store",
			Run: func(ctx context.Context, r *Runner) Result {
				return concurrentCreates(ctx, r, base)
			},
		},
		httpCaseMethod("Drivers: nearby", http.MethodGet, base+"/api/drivers/nearby?lat=12.9716&lng=77.5946", nil, []int{200, 429}),
		httpCaseMethod("Drivers: invalid coordinates", http.MethodGet, base+"/api/drivers/nearby?lat=999&lng=0", nil, []int{400, 429}),
		{
			Name:  "Rate limit: geolocation burst",
			Focus: "fixed window limiter",
			Run: func(ctx context.Context, r *Runner) Result {
				return rateLimitBurst(ctx, r, base+"/api/drivers/nearby?lat=12.9716&lng=77.5946")
			},
		},
		{
			Name:  "Perf: fare quote",
			Focus: "throughput",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, base+"/api/fares/quote?serviceType=tour&hours=14")
			},
		},
	}
}

func (r *Runner) doJSON(ctx context.Context, method, url string, body, out any) (int, time.Duration, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, 0, err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	start := time.Now()
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()
	latency := time.Since(start)
	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, latency, fmt.Errorf("decode: %w", err)
		}
		return resp.StatusCode, latency, nil
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, latency, nil
}

func httpCaseMethod(name, method, url string, body any, okStatuses []int) TestCase {
	return TestCase{
		Name:  name,
		Focus: "HTTP API",
		Run: func(ctx context.Context, r *Runner) Result {
			status, latency, err := r.doJSON(ctx, method, url, body, nil)
			if err != nil {
				return Result{Status: "FAIL", Note: err.Error()}
			}
			if contains(okStatuses, status) {
				return Result{Status: "PASS", Latency: latency, Note: fmt.Sprintf("status=%d", status)}
			}
			return Result{Status: "FAIL", Latency: latency, Note: fmt.Sprintf("status=%d", status)}
		},
	}
}

// bookingCase targets the booking made by the create case; it is skipped
// when that case failed.
func (r *Runner) bookingCase(name, method string, body any, okStatuses []int) TestCase {
	return TestCase{
		Name:  name,
		Focus: "HTTP API",
		Run: func(ctx context.Context, r *Runner) Result {
			if r.bookingID == "" {
				return Result{Status: "SKIP", Note: "no booking created"}
			}
			url := r.cfg.BaseURL + "/api/bookings/" + r.bookingID
			return httpCaseMethod(name, method, url, body, okStatuses).Run(ctx, r)
		},
	}
}

func concurrentCreates(ctx context.Context, r *Runner, base string) Result {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		ids  = map[string]int{}
		errs int
	)
	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var resp struct {
				Booking struct {
					ID string `json:"id"`
				} `json:"booking"`
			}
			status, _, err := r.doJSON(ctx, http.MethodPost, base+"/api/bookings", sampleBooking(), &resp)
			mu.Lock()
			defer mu.Unlock()
			if err != nil || status != http.StatusCreated {
				errs++
				return
			}
			ids[resp.Booking.ID]++
		}()
	}
	wg.Wait()

	dupes := 0
	for id, n := range ids {
		if n > 1 {
			dupes++
		}
		_, _, _ = r.doJSON(ctx, http.MethodDelete, base+"/api/bookings/"+id, nil, nil)
	}
	if dupes > 0 {
		return Result{Status: "FAIL", Note: fmt.Sprintf("duplicate ids=%d", dupes)}
	}
	if len(ids) == 0 {
		return Result{Status: "FAIL", Note: fmt.Sprintf("no bookings created, errors=%d", errs)}
	}
	return Result{Status: "PASS", Note: fmt.Sprintf("created=%d errors=%d", len(ids), errs)}
}

func rateLimitBurst(ctx context.Context, r *Runner, url string) Result {
	limited := 0
	for i := 0; i < r.cfg.Burst; i++ {
		status, _, err := r.doJSON(ctx, http.MethodGet, url, nil, nil)
		if err != nil {
			return Result{Status: "FAIL", Note: err.Error()}
		}
		if status == http.StatusTooManyRequests {
			limited++
		}
	}
	if limited == 0 {
		return Result{Status: "SKIP", Note: fmt.Sprintf("no 429 after %d calls; limiter disabled or limit above burst", r.cfg.Burst)}
	}
	return Result{Status: "PASS", Note: fmt.Sprintf("limited=%d/%d", limited, r.cfg.Burst)}
}

func perfLoad(ctx context.Context, r *Runner, url string) Result {
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount int64
	var mu sync.Mutex
	wg := sync.WaitGroup{}

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				_, _, err := r.doJSON(ctx, http.MethodGet, url, nil, nil)
				mu.Lock()
				if err != nil {
					errCount++
				} else {
					count++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if count == 0 {
		return Result{Status: "FAIL", Note: "no requests completed"}
	}
	rps := float64(count) / r.cfg.Duration.Seconds()
	return Result{Status: "PASS", Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount)}
}

func contains(list []int, v int) bool {
	for _, i := range list {
		if i == v {
			return true
		}
	}
	return false
}
