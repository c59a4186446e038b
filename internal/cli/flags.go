package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/noisegraph/internal/mapping"
)

// parseFloats parses a comma-separated list such as "0.5,1,-2".
func parseFloats(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("empty coordinate list")
	}
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

// parseRect parses "x,y,w,h".
func parseRect(s string) (mapping.Rect, error) {
	v, err := parseFloats(s)
	if err != nil {
		return mapping.Rect{}, fmt.Errorf("domain: %w", err)
	}
	if len(v) != 4 {
		return mapping.Rect{}, fmt.Errorf("domain needs 4 values x,y,w,h, got %d", len(v))
	}
	r := mapping.Rect{X: v[0], Y: v[1], W: v[2], H: v[3]}
	if r.W == 0 || r.H == 0 {
		return mapping.Rect{}, fmt.Errorf("domain must have a nonzero extent")
	}
	return r, nil
}

// parseSize parses "WxH".
func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("size %q: want WxH", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("size %q: %w", s, err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("size %q: %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("size %q: dimensions must be positive", s)
	}
	return w, h, nil
}

// parseBinding parses "name=expr".
func parseBinding(s string) (string, string, error) {
	name, expr, ok := strings.Cut(s, "=")
	name, expr = strings.TrimSpace(name), strings.TrimSpace(expr)
	if !ok || name == "" || expr == "" {
		return "", "", fmt.Errorf("binding %q: want name=expr", s)
	}
	return name, expr, nil
}
