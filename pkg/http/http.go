package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"glyco/defs"
	"glyco/pkg/iob"
	"glyco/pkg/mg"
	"glyco/pkg/report"
	"glyco/pkg/units"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

const dayFormat = "2006-01-02"

type httpStore interface {
	mg.GlucoseStore
	mg.InsulinStore
}

type HttpServer struct {
	Store    httpStore
	Cache    *report.Cache
	Logger   *zap.Logger
	Location *time.Location

	thresholds defs.GlucoseThresholds
	analytics  defs.AnalyticsConfig
	// readingSets maps a request window to the reading set last seen in it.
	readingSets *lru.Cache[string, string]
	engine      *gin.Engine
}

func New(s httpStore, cache *report.Cache, cfg defs.Config, loc *time.Location) (*HttpServer, error) {
	size := cfg.HTTP.CacheSize
	if size <= 0 {
		size = defs.DefaultCacheSize
	}
	readingSets, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("unable to create reading set index: %w", err)
	}

	hs := &HttpServer{
		Store:       s,
		Cache:       cache,
		Logger:      cfg.Logger,
		Location:    loc,
		thresholds:  cfg.Glucose,
		analytics:   cfg.Analytics,
		readingSets: readingSets,
	}
	hs.routes()
	return hs, nil
}

func (s *HttpServer) Handler() http.Handler {
	return s.engine
}

func (s *HttpServer) Run(addr string) error {
	s.Logger.Info("serving reports", zap.String("address", addr))
	return s.engine.Run(addr)
}

func (s *HttpServer) routes() {
	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests())

	r.GET("/report", s.section(func(rep *report.Report) interface{} { return rep }))
	r.GET("/agp", s.section(func(rep *report.Report) interface{} { return rep.AGP }))
	r.GET("/tir", s.section(func(rep *report.Report) interface{} { return rep.TIR }))
	r.GET("/roc", s.section(func(rep *report.Report) interface{} { return rep.RoC }))
	r.GET("/risk", s.section(func(rep *report.Report) interface{} { return rep.Risk }))
	r.GET("/iob", s.handleIOB)

	s.engine = r
}

func (s *HttpServer) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.Logger.Debug("handled request",
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}

// section builds (or fetches) the report for the requested window and
// responds with the part selected by pick, in the requested unit.
func (s *HttpServer) section(pick func(*report.Report) interface{}) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, unit, err := s.parseRequest(c)
		if err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), defs.TimeoutInterval)
		defer cancel()

		start, end := req.Filter.Start, req.Filter.End
		req.Glucose, err = s.Store.ReadGlucose(ctx, start, end)
		if err != nil {
			s.Logger.Debug("unable to read glucose", zap.Error(err))
			c.String(http.StatusInternalServerError, "something went wrong reading glucose: %v", err)
			return
		}

		if !req.Day.IsZero() {
			from := iob.LookbackStart(req.Day, req.Analytics.InsulinActionDuration(), s.Location)
			req.Insulin, err = s.Store.ReadInsulin(ctx, from, from.Add(req.Analytics.InsulinActionDuration()+24*time.Hour))
			if err != nil {
				s.Logger.Debug("unable to read insulin", zap.Error(err))
				c.String(http.StatusInternalServerError, "something went wrong reading insulin: %v", err)
				return
			}
		}

		rep, err := s.Cache.Get(ctx, s.readingSet(req), req)
		if err != nil {
			status := http.StatusInternalServerError
			if isConfigError(err) {
				status = http.StatusBadRequest
			}
			c.String(status, "unable to build report: %v", err)
			return
		}

		c.JSON(http.StatusOK, pick(displayReport(rep, unit)))
	}
}

// readingSet identifies the readings loaded for req's window. When they
// differ from the last ones seen for that window the stale reports are
// dropped from the cache.
func (s *HttpServer) readingSet(req report.Request) string {
	window := fmt.Sprintf("%d-%d-%s", req.Filter.Start.Unix(), req.Filter.End.Unix(), req.Day.Format(dayFormat))

	var last time.Time
	if n := len(req.Glucose); n > 0 {
		last = req.Glucose[n-1].Time
	}
	id := fmt.Sprintf("%s#%d-%d-%d", window, len(req.Glucose), last.Unix(), len(req.Insulin))

	if prev, ok := s.readingSets.Get(window); ok && prev != id {
		s.Logger.Debug("reading set changed", zap.String("previous", prev), zap.String("current", id))
		s.Cache.Invalidate(prev)
	}
	s.readingSets.Add(window, id)
	return id
}

func (s *HttpServer) handleIOB(c *gin.Context) {
	day, err := time.ParseInLocation(dayFormat, c.Query("day"), s.Location)
	if err != nil {
		c.String(http.StatusBadRequest, "expected day as YYYY-MM-DD")
		return
	}
	duration := s.analytics.InsulinActionDuration()
	if v := c.Query("duration"); v != "" {
		hours, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.String(http.StatusBadRequest, "expected duration in hours")
			return
		}
		duration = time.Duration(hours * float64(time.Hour))
	}
	if err := defs.ValidateInsulinDuration(duration); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), defs.TimeoutInterval)
	defer cancel()

	from := iob.LookbackStart(day, duration, s.Location)
	doses, err := s.Store.ReadInsulin(ctx, from, from.Add(duration+24*time.Hour))
	if err != nil {
		s.Logger.Debug("unable to read insulin", zap.Error(err))
		c.String(http.StatusInternalServerError, "something went wrong reading insulin: %v", err)
		return
	}

	points, err := iob.Timeline(doses, day, duration, iob.DefaultStep, s.Location)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, points)
}

// parseRequest reads the start/end window (unix seconds) and optional
// overrides: day, unit, veryLow, low, high, veryHigh (in unit), mode,
// interval, hourGroup.
func (s *HttpServer) parseRequest(c *gin.Context) (report.Request, units.GlucoseUnit, error) {
	req := report.Request{
		Thresholds: s.thresholds,
		Analytics:  s.analytics,
		Location:   s.Location,
	}
	unit := units.MmolL

	start, err := unixParam(c, "start")
	if err != nil {
		return req, unit, err
	}
	end, err := unixParam(c, "end")
	if err != nil {
		return req, unit, err
	}
	if end.Before(start) {
		return req, unit, fmt.Errorf("end must not be before start")
	}
	req.Filter.Start, req.Filter.End = start.In(s.Location), end.In(s.Location)

	if v := c.Query("day"); v != "" {
		if req.Day, err = time.ParseInLocation(dayFormat, v, s.Location); err != nil {
			return req, unit, fmt.Errorf("expected day as YYYY-MM-DD")
		}
	}
	if v := c.Query("unit"); v != "" {
		if unit, err = units.ParseGlucoseUnit(v); err != nil {
			return req, unit, err
		}
	}
	for name, field := range map[string]*float64{
		"veryLow":  &req.Thresholds.VeryLow,
		"low":      &req.Thresholds.Low,
		"high":     &req.Thresholds.High,
		"veryHigh": &req.Thresholds.VeryHigh,
	} {
		v := c.Query(name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return req, unit, fmt.Errorf("expected number for %s", name)
		}
		*field = units.FromDisplay(f, unit)
	}
	if v := c.Query("mode"); v != "" {
		mode, err := strconv.Atoi(v)
		if err != nil {
			return req, unit, fmt.Errorf("expected integer mode")
		}
		req.Analytics.CategoryMode = defs.CategoryMode(mode)
	}
	if v := c.Query("interval"); v != "" {
		interval, err := strconv.Atoi(v)
		if err != nil {
			return req, unit, fmt.Errorf("expected interval in minutes")
		}
		req.Analytics.RoCInterval = defs.RoCInterval(interval)
	}
	if v := c.Query("hourGroup"); v != "" {
		if req.Analytics.HourGroup, err = strconv.Atoi(v); err != nil {
			return req, unit, fmt.Errorf("expected integer hourGroup")
		}
	}
	return req, unit, req.Validate()
}

func unixParam(c *gin.Context, name string) (time.Time, error) {
	v, err := strconv.ParseInt(c.Query(name), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected unix timestamp for %s", name)
	}
	return time.Unix(v, 0), nil
}

func isConfigError(err error) bool {
	for _, target := range []error{
		defs.ErrInvalidThresholds,
		defs.ErrInvalidCategoryMode,
		defs.ErrInvalidRoCInterval,
		defs.ErrInvalidHourGroup,
		defs.ErrInvalidInsulinDuration,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
