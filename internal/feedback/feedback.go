// Package feedback records user accept/override decisions on suggested
// phantom edges and derives per-signal bias adjustments from them. The
// adjustments apply to *displayed* confidence only; the similarity engine's
// internal math never sees them.
package feedback

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/paperweave/paperweave/pkg/models"
)

// Decision records one user verdict on a suggested phantom edge, together
// with the suggestion's signal breakdown at decision time.
type Decision struct {
	ID           string           `json:"id"`
	CollectionID string           `json:"collection_id"`
	EdgeID       string           `json:"edge_id"`
	SourceID     string           `json:"source_id"`
	TargetID     string           `json:"target_id"`
	Accepted     bool             `json:"accepted"`
	Breakdown    models.Breakdown `json:"breakdown"`
	CreatedAt    time.Time        `json:"created_at"`
}

// BiasAdjustments holds one displayed-confidence multiplier per signal,
// each in [0.5, 1.5]. A signal with no recorded decisions stays at 1.0.
type BiasAdjustments struct {
	Tag        float64 `json:"tag"`
	Text       float64 `json:"text"`
	Year       float64 `json:"year"`
	Role       float64 `json:"role"`
	Connection float64 `json:"connection"`
}

// Neutral returns adjustments that leave confidence untouched.
func Neutral() BiasAdjustments {
	return BiasAdjustments{Tag: 1, Text: 1, Year: 1, Role: 1, Connection: 1}
}

// Derive computes bias adjustments from recorded decisions. Each decision
// is attributed to its dominant signal; the multiplier for a signal is
// 0.5 + mean accept rate of its decisions, so a signal whose suggestions
// users always override is halved and one they always accept is boosted by
// half.
func Derive(decisions []Decision) BiasAdjustments {
	verdicts := make(map[string][]float64)
	for _, d := range decisions {
		v := 0.0
		if d.Accepted {
			v = 1.0
		}
		signal := dominantSignal(d.Breakdown)
		verdicts[signal] = append(verdicts[signal], v)
	}

	adjust := func(signal string) float64 {
		vs := verdicts[signal]
		if len(vs) == 0 {
			return 1.0
		}
		return 0.5 + stat.Mean(vs, nil)
	}

	return BiasAdjustments{
		Tag:        adjust("tag"),
		Text:       adjust("text"),
		Year:       adjust("year"),
		Role:       adjust("role"),
		Connection: adjust("connection"),
	}
}

// Apply scales a raw similarity score by the multiplier of its dominant
// signal and clamps the result to [0,1] for display.
func (b BiasAdjustments) Apply(score float64, breakdown models.Breakdown) float64 {
	multiplier := 1.0
	switch dominantSignal(breakdown) {
	case "tag":
		multiplier = b.Tag
	case "text":
		multiplier = b.Text
	case "year":
		multiplier = b.Year
	case "role":
		multiplier = b.Role
	case "connection":
		multiplier = b.Connection
	}

	adjusted := score * multiplier
	if adjusted < 0 {
		return 0
	}
	if adjusted > 1 {
		return 1
	}
	return adjusted
}

// dominantSignal names the largest component of a breakdown. Ties resolve
// in the fixed signal order tag, text, year, role, connection.
func dominantSignal(b models.Breakdown) string {
	signal := "tag"
	best := b.Tag
	for _, c := range []struct {
		name  string
		value float64
	}{
		{"text", b.Text},
		{"year", b.Year},
		{"role", b.Role},
		{"connection", b.Connection},
	} {
		if c.value > best {
			signal = c.name
			best = c.value
		}
	}
	return signal
}
