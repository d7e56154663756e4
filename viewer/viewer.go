// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package viewer implements an HTTP server
// for the interactive movie viewer:
// a JSON API over the movie and its charts,
// the rendered frames as SVG and PNG,
// and a websocket
// for navigation commands
// and state updates.
package viewer

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/phylomovie/phylomovie/anim"
	"github.com/phylomovie/phylomovie/chart"
	"github.com/phylomovie/phylomovie/export"
	"github.com/phylomovie/phylomovie/movie"
	"github.com/phylomovie/phylomovie/msa"
)

//go:embed static/index.html
var static embed.FS

// A Server serves the interactive movie viewer.
type Server struct {
	ctrl *anim.Controller
	mov  *movie.Movie
	res  *movie.Resolver
	sync *msa.Sync
	dir  string
	log  *zap.Logger

	hub *hub
}

// New creates a viewer server
// over an animation controller
// and its movie.
// The region synchronizer may be nil
// when no alignment is attached;
// snapshots are written into dir.
// A nil logger disables logging.
func New(ctrl *anim.Controller, m *movie.Movie, sync *msa.Sync, dir string, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	res, err := m.Resolver()
	if err != nil {
		return nil, err
	}

	s := &Server{
		ctrl: ctrl,
		mov:  m,
		res:  res,
		sync: sync,
		dir:  dir,
		log:  log,
		hub:  newHub(log),
	}
	ctrl.Notify = s.notify
	return s, nil
}

// notify publishes a controller state change
// to the websocket clients
// and to the alignment collaborator.
func (s *Server) notify(state anim.State, index int) {
	ev := stateEvent{
		Type:  "state",
		State: state.String(),
		Index: index,
	}
	if a, err := s.res.NearestAnchor(index); err == nil {
		ev.Anchor = a
		if s.sync != nil {
			s.sync.Anchor(a)
		}
	}
	s.hub.broadcast(ev)
}

// A regionEvent carries the alignment region
// of the anchor nearest to the displayed frame.
type regionEvent struct {
	Type   string     `json:"type"`
	Region msa.Region `json:"region"`
}

// BroadcastRegion pushes an alignment region
// to the websocket clients.
// It is meant as the notify function
// of the region synchronizer.
func (s *Server) BroadcastRegion(reg msa.Region) {
	s.hub.broadcast(regionEvent{
		Type:   "msaRegion",
		Region: reg,
	})
}

// Router returns the HTTP routes of the viewer.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		page, err := static.ReadFile("static/index.html")
		if err != nil {
			httpError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(page)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/api/movie", s.handleMovie)
	r.Get("/api/frame.svg", s.handleFrameSVG)
	r.Get("/api/frame.png", s.handleFramePNG)
	r.Post("/api/export", s.handleExport)
	r.Post("/api/nav", s.handleNav)
	r.Get("/api/charts/{series}", s.handleChart)
	r.Get("/api/msa/region", s.handleRegion)
	r.Get("/ws", s.handleWS)

	return r
}

// Run serves the viewer on the given address
// and drives the playback loop
// until the context is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}

	loop := anim.NewLoop(s.ctrl, 0, s.log)
	lctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go loop.Run(lctx)

	if s.sync != nil {
		go func() {
			tick := time.NewTicker(msa.DefThrottle)
			defer tick.Stop()
			for {
				select {
				case <-lctx.Done():
					return
				case <-tick.C:
					s.sync.Flush()
				}
			}
		}()
	}

	go func() {
		<-ctx.Done()
		sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer scancel()
		srv.Shutdown(sctx)
	}()

	s.log.Info("viewer listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleMovie(w http.ResponseWriter, r *http.Request) {
	info := struct {
		Trees   int    `json:"trees"`
		Anchors int    `json:"anchors"`
		Leaves  int    `json:"leaves"`
		State   string `json:"state"`
		Index   int    `json:"currentSequenceIndex"`
	}{
		Trees:   s.mov.Len(),
		Anchors: s.mov.Anchors(),
		Leaves:  len(s.mov.SortedLeaves),
		State:   s.ctrl.State().String(),
		Index:   s.ctrl.Current(),
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleFrameSVG(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := s.ctrl.WriteSVG(w); err != nil {
		s.log.Warn("frame render failed", zap.Error(err))
	}
}

func (s *Server) handleFramePNG(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.ctrl.WriteSVG(&buf); err != nil {
		httpError(w, http.StatusInternalServerError, err)
		return
	}
	width, height := s.ctrl.Surface()

	w.Header().Set("Content-Type", "image/png")
	name := export.SnapshotName(s.ctrl.Current())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if err := export.Raster(w, buf.Bytes(), int(width), int(height)); err != nil {
		s.log.Warn("snapshot failed", zap.Error(err))
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.ctrl.WriteSVG(&buf); err != nil {
		httpError(w, http.StatusInternalServerError, err)
		return
	}
	width, height := s.ctrl.Surface()

	var png bytes.Buffer
	if err := export.Raster(&png, buf.Bytes(), int(width), int(height)); err != nil {
		httpError(w, http.StatusInternalServerError, err)
		return
	}
	name, err := export.Write(s.dir, s.ctrl.Current(), png.Bytes())
	if err != nil {
		httpError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"file": name})
}

// A navCommand is a navigation request:
// play, pause, stop, forward, backward,
// goto (with index),
// or scrub (with fraction).
type navCommand struct {
	Action   string  `json:"action"`
	Index    int     `json:"index"`
	Fraction float64 `json:"fraction"`
}

func (s *Server) handleNav(w http.ResponseWriter, r *http.Request) {
	var cmd navCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.navigate(cmd); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, anim.ErrInvalidNavigation) {
			code = http.StatusBadRequest
		}
		httpError(w, code, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"state":                s.ctrl.State().String(),
		"currentSequenceIndex": s.ctrl.Current(),
	})
}

func (s *Server) navigate(cmd navCommand) error {
	switch cmd.Action {
	case "play":
		return s.ctrl.Play()
	case "pause":
		s.ctrl.Pause()
		return nil
	case "stop":
		return s.ctrl.Stop()
	case "forward":
		return s.ctrl.Forward()
	case "backward":
		return s.ctrl.Backward()
	case "goto":
		return s.ctrl.GoTo(cmd.Index)
	case "scrub":
		return s.ctrl.ScrubTo(cmd.Fraction)
	}
	return fmt.Errorf("%w: unknown action %q", anim.ErrInvalidNavigation, cmd.Action)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	sr := chart.Series(chi.URLParam(r, "series"))
	v, err := chart.Values(sr, s.mov)
	if err != nil {
		httpError(w, http.StatusNotFound, err)
		return
	}
	x, err := chart.Indicator(sr, s.res, s.ctrl.Current())
	if err != nil {
		httpError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"series":    sr,
		"values":    v,
		"indicator": x,
	})
}

func (s *Server) handleRegion(w http.ResponseWriter, r *http.Request) {
	if s.sync == nil {
		httpError(w, http.StatusNotFound, fmt.Errorf("no alignment attached"))
		return
	}
	a, err := s.res.NearestAnchor(s.ctrl.Current())
	if err != nil {
		httpError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, s.sync.Window().Region(a))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
