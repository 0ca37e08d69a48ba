package server

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradebook/chart"
	"github.com/rustyeddy/tradebook/journal"
	"github.com/rustyeddy/tradebook/pkg/id"
)

// Snapshot is the ledger state returned after every call.
type Snapshot struct {
	Entries []journal.Entry `json:"entries"`
	Summary journal.Summary `json:"summary"`
	NextID  int             `json:"next_id"`
}

// AddRequest is the body of POST /api/trades. Time is optional.
type AddRequest struct {
	Amount string `json:"amount"`
	Fee    string `json:"fee"`
	Note   string `json:"note"`
	Time   string `json:"time"`
}

// FlipRequest is the body of POST /api/flip.
type FlipRequest struct {
	Value string `json:"value"`
}

// EditRequest is the body of PUT /api/trades.
type EditRequest struct {
	Rows []journal.EditRow `json:"rows"`
}

// snapshot must be called with mu held.
func (s *Server) snapshot(order journal.Order) Snapshot {
	return Snapshot{
		Entries: s.ledger.List(order),
		Summary: s.ledger.Summary(),
		NextID:  s.ledger.NextID(),
	}
}

func (s *Server) order(c *gin.Context) journal.Order {
	if v := strings.TrimSpace(c.Query("order")); v != "" {
		return journal.ParseOrder(strings.ToLower(v))
	}
	return journal.ParseOrder(s.cfg.Export.Order)
}

func (s *Server) listTrades(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	meta := map[string]any{"session": s.session}
	if started, err := id.Started(s.session); err == nil {
		meta["started"] = started.UTC()
	}
	Ok(c, s.snapshot(s.order(c)), meta)
}

func (s *Server) addTrade(c *gin.Context) {
	var req AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body: "+err.Error(), nil)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tr, warnings, err := s.ledger.AddText(req.Amount, req.Fee, req.Note, req.Time)

	var verr *journal.ValidationError
	if errors.As(err, &verr) {
		Error(c, http.StatusUnprocessableEntity, verr.Error(),
			map[string]any{"field": verr.Field, "value": verr.Value})
		return
	}
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	s.log.Info("trade added",
		zap.Int("id", tr.ID),
		zap.String("amount", tr.Amount.String()),
		zap.String("fee", tr.Fee.String()))
	for _, w := range warnings {
		s.log.Warn("add field replaced by default", zap.String("detail", w.String()))
	}
	if warnings == nil {
		warnings = []journal.RowWarning{}
	}
	Created(c, s.snapshot(s.order(c)), map[string]any{"trade": tr, "warnings": warnings})
}

// flip negates an amount typed in a form, the way the amount field's sign
// toggle does. It never touches the ledger.
func (s *Server) flip(c *gin.Context) {
	var req FlipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body: "+err.Error(), nil)
		return
	}
	flipped, err := journal.FlipSign(req.Value)
	if err != nil {
		Error(c, http.StatusUnprocessableEntity, err.Error(),
			map[string]any{"field": "value", "value": req.Value})
		return
	}
	Ok(c, FlipRequest{Value: flipped}, nil)
}

func (s *Server) editTrades(c *gin.Context) {
	var req EditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body: "+err.Error(), nil)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order := s.order(c)
	warnings := s.ledger.Edit(order, req.Rows)
	for _, w := range warnings {
		s.log.Warn("edit row replaced by default", zap.String("detail", w.String()))
	}
	s.log.Info("ledger edited", zap.Int("rows", len(req.Rows)), zap.Int("warnings", len(warnings)))

	if warnings == nil {
		warnings = []journal.RowWarning{}
	}
	Ok(c, s.snapshot(order), map[string]any{"warnings": warnings})
}

func (s *Server) clearTrades(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledger.Clear()
	s.log.Info("ledger cleared")
	Ok(c, s.snapshot(s.order(c)), nil)
}

func (s *Server) summary(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	Ok(c, s.ledger.Summary(), nil)
}

func (s *Server) exportCSV(c *gin.Context) {
	withBOM := s.cfg.Export.BOM
	if v := c.Query("bom"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			Error(c, http.StatusBadRequest, "bom must be a boolean", nil)
			return
		}
		withBOM = b
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	if err := s.ledger.WriteCSV(&buf, s.order(c), withBOM); err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+journal.ExportFilename(s.now())+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (s *Server) exportOrg(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	if err := s.ledger.WriteOrg(&buf, c.Query("title"), s.order(c)); err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	c.Data(http.StatusOK, "text/org; charset=utf-8", buf.Bytes())
}

func (s *Server) chartPNG(c *gin.Context) {
	s.mu.Lock()
	entries := s.ledger.List(journal.Chronological)
	s.mu.Unlock()

	png, err := chart.RenderBalance(entries)
	if errors.Is(err, chart.ErrNoTrades) {
		Error(c, http.StatusNotFound, "no trades to chart", nil)
		return
	}
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
