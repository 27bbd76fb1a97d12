// Package api exposes the ledger over HTTP. It is a thin consumer: every
// handler reads the memoized load result and renders it, none of them
// reach into extraction logic.
package api

import (
	"bytes"
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ujorgeleite/fatura-ledger/internal/ledger"
	"github.com/ujorgeleite/fatura-ledger/internal/models"
	"github.com/ujorgeleite/fatura-ledger/internal/writer"
)

const version = "1.0.0"

const filterDateLayout = "2006-01-02"

// Handler serves the ledger endpoints.
type Handler struct {
	Loader *ledger.Loader
	Log    zerolog.Logger
}

// Register sets up the API routes on the fiber app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Get("/api/ledger", h.HandleLedger)
	app.Get("/api/summary", h.HandleSummary)
	app.Post("/api/reload", h.HandleReload)
	app.Get("/api/export.csv", h.HandleExportCSV)
	app.Get("/api/export.xlsx", h.HandleExportXLSX)
}

// LedgerResponse is the JSON payload of /api/ledger.
type LedgerResponse struct {
	RunID        string               `json:"runId"`
	Count        int                  `json:"count"`
	Total        float64              `json:"total"`
	Transactions []models.Transaction `json:"transactions"`
	Warnings     []ledger.Warning     `json:"warnings,omitempty"`
}

func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": version,
	})
}

func (h *Handler) HandleLedger(c *fiber.Ctx) error {
	res, err := h.Loader.Load()
	if err != nil {
		return h.loadError(c, err)
	}

	filtered := ledger.Apply(res.Ledger, filterFromQuery(c))
	var total float64
	for _, t := range filtered.Transactions {
		total += t.Amount
	}

	return c.JSON(LedgerResponse{
		RunID:        res.RunID,
		Count:        filtered.Len(),
		Total:        total,
		Transactions: filtered.Transactions,
		Warnings:     res.Warnings,
	})
}

func (h *Handler) HandleSummary(c *fiber.Ctx) error {
	res, err := h.Loader.Load()
	if err != nil {
		return h.loadError(c, err)
	}
	filtered := ledger.Apply(res.Ledger, filterFromQuery(c))
	return c.JSON(ledger.Summarize(filtered))
}

func (h *Handler) HandleReload(c *fiber.Ctx) error {
	h.Loader.Invalidate()
	res, err := h.Loader.Load()
	if err != nil {
		return h.loadError(c, err)
	}
	h.Log.Info().Str("run", res.RunID).Msg("ledger reloaded")
	return c.JSON(fiber.Map{
		"runId":        res.RunID,
		"files":        res.Files,
		"skipped":      res.Skipped,
		"transactions": res.Ledger.Len(),
	})
}

func (h *Handler) HandleExportCSV(c *fiber.Ctx) error {
	return h.export(c, &writer.CSVWriter{}, "text/csv; charset=utf-8", "faturas.csv")
}

func (h *Handler) HandleExportXLSX(c *fiber.Ctx) error {
	return h.export(c,
		&writer.XLSXWriter{},
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"faturas.xlsx")
}

type exportWriter interface {
	Write(out io.Writer, led models.Ledger) error
}

func (h *Handler) export(c *fiber.Ctx, w exportWriter, contentType, filename string) error {
	res, err := h.Loader.Load()
	if err != nil {
		return h.loadError(c, err)
	}
	filtered := ledger.Apply(res.Ledger, filterFromQuery(c))

	var buf bytes.Buffer
	if err := w.Write(&buf, filtered); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}

// loadError maps the load failure taxonomy onto status codes: an empty
// or fully failed directory is a client-visible "no data" condition,
// anything else is a server fault.
func (h *Handler) loadError(c *fiber.Ctx, err error) error {
	h.Log.Error().Err(err).Msg("ledger load failed")
	if errors.Is(err, ledger.ErrNoData) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}

func filterFromQuery(c *fiber.Ctx) ledger.Filter {
	f := ledger.Filter{
		Holder:           c.Query("holder"),
		CardID:           c.Query("card"),
		PeriodLabel:      c.Query("period"),
		Category:         c.Query("category"),
		InstallmentsOnly: c.QueryBool("installments"),
	}
	if v := c.Query("from"); v != "" {
		if d, err := time.Parse(filterDateLayout, v); err == nil {
			f.From = d
		}
	}
	if v := c.Query("to"); v != "" {
		if d, err := time.Parse(filterDateLayout, v); err == nil {
			f.To = d
		}
	}
	return f
}
