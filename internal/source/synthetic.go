package source

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"github.com/harrison/loopscope/internal/pattern"
)

// GeneratorOptions shapes the synthetic session log.
type GeneratorOptions struct {
	Days      int       // number of days to generate
	StartDay  time.Time // midnight of the first day; zero means today-Days
	Seed      int64     // rand seed; fixed seeds reproduce the same log
	LoopPairs [][2]string
	WorkApps  []string
}

// DefaultGeneratorOptions returns a week of plausible usage.
func DefaultGeneratorOptions() GeneratorOptions {
	return GeneratorOptions{
		Days: 7,
		Seed: 1,
		LoopPairs: [][2]string{
			{"slack", "twitter"},
			{"mail", "safari"},
		},
		WorkApps: []string{"vscode", "terminal", "figma"},
	}
}

// Generator produces deterministic synthetic session logs for demos
// and tests. It satisfies Reader so demo runs can skip the database.
type Generator struct {
	opts GeneratorOptions
}

// NewGenerator creates a generator.
func NewGenerator(opts GeneratorOptions) *Generator {
	if opts.Days <= 0 {
		opts.Days = 7
	}
	if opts.StartDay.IsZero() {
		now := time.Now()
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
		opts.StartDay = midnight.AddDate(0, 0, -opts.Days)
	}
	return &Generator{opts: opts}
}

// ReadWindow implements Reader over the generated log.
func (g *Generator) ReadWindow(_ context.Context, since, until time.Time) ([]pattern.SessionRecord, error) {
	return filterWindow(g.Generate(), since, until), nil
}

// Generate builds the full synthetic log: one morning death-loop burst
// per configured pair, a midday deep-work block, and scattered evening
// browsing, every day.
func (g *Generator) Generate() []pattern.SessionRecord {
	rng := rand.New(rand.NewSource(g.opts.Seed))
	var records []pattern.SessionRecord

	for d := 0; d < g.opts.Days; d++ {
		day := g.opts.StartDay.AddDate(0, 0, d)

		// Morning loop bursts: rapid alternation with short gaps.
		at := day.Add(9*time.Hour + 15*time.Minute)
		for _, pair := range g.opts.LoopPairs {
			for i := 0; i < 12+rng.Intn(4); i++ {
				app := pair[i%2]
				dur := time.Duration(10+rng.Intn(30)) * time.Second
				records = append(records, pattern.SessionRecord{AppID: app, Start: at, End: at.Add(dur)})
				at = at.Add(dur + time.Duration(2+rng.Intn(6))*time.Second)
			}
			at = at.Add(5 * time.Minute)
		}

		// Midday work block: work apps cycling with short hops, so
		// their start times fall inside the co-occurrence window.
		at = day.Add(13 * time.Hour)
		for i := 0; i < 24; i++ {
			app := g.opts.WorkApps[i%max(1, len(g.opts.WorkApps))]
			dur := time.Duration(20+rng.Intn(30)) * time.Second
			records = append(records, pattern.SessionRecord{AppID: app, Start: at, End: at.Add(dur)})
			at = at.Add(dur + time.Duration(1+rng.Intn(5))*time.Second)
		}

		// Evening browsing: sparse, gapped sessions.
		at = day.Add(20 * time.Hour)
		for i := 0; i < 5; i++ {
			dur := time.Duration(1+rng.Intn(10)) * time.Minute
			records = append(records, pattern.SessionRecord{AppID: "safari", Start: at, End: at.Add(dur)})
			at = at.Add(dur + time.Duration(5+rng.Intn(20))*time.Minute)
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Start.Before(records[j].Start)
	})
	return records
}
