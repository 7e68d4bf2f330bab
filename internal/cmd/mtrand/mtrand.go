// Package mtrand parses mtrand command flags and writes generator output.
package mtrand

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/louisbranch/twister/internal/dice"
	entrypoint "github.com/louisbranch/twister/internal/platform/cmd"
	"github.com/louisbranch/twister/internal/random"
	"github.com/louisbranch/twister/internal/stream"
	"github.com/louisbranch/twister/internal/stream/sqlite"
)

const tracerName = "github.com/louisbranch/twister/internal/cmd/mtrand"

// Output formats.
const (
	FormatUint  = "uint"
	FormatFloat = "float"
	FormatHex   = "hex"
	FormatDice  = "dice"
)

// cancelCheckInterval is how many values are written between context checks.
const cancelCheckInterval = 1024

// Config holds mtrand command configuration.
type Config struct {
	Seed   string `env:"SEED"`
	Count  int    `env:"COUNT" envDefault:"10"`
	Format string `env:"FORMAT" envDefault:"uint"`
	Dice   string `env:"DICE" envDefault:"1d6"`
	Stream string `env:"STREAM"`
	DBPath string `env:"DB_PATH"`
	Lang   string `env:"LANG" envDefault:"en"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Seed, "seed", cfg.Seed, "32-bit seed, decimal or 0x-hex (empty = random)")
	fs.IntVar(&cfg.Count, "count", cfg.Count, "number of values to write")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "output format (uint, float, hex, dice)")
	fs.StringVar(&cfg.Dice, "dice", cfg.Dice, "comma-separated dice for -format dice, e.g. 2d6,1d8")
	fs.StringVar(&cfg.Stream, "stream", cfg.Stream, "named stream to resume and save (requires -db)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite path for stream snapshots")
	fs.StringVar(&cfg.Lang, "lang", cfg.Lang, "language tag for the summary line")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Count < 0 {
		return fmt.Errorf("count must be non-negative, got %d", c.Count)
	}
	switch c.Format {
	case FormatUint, FormatFloat, FormatHex, FormatDice:
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
	if strings.TrimSpace(c.Stream) != "" && strings.TrimSpace(c.DBPath) == "" {
		return errors.New("stream requires a db path")
	}
	return nil
}

// Run writes cfg.Count values to out and a summary line to errOut.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMTRand, func(ctx context.Context) error {
		return generate(ctx, cfg, out, errOut)
	})
}

func generate(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) (err error) {
	tag, err := language.Parse(strings.TrimSpace(cfg.Lang))
	if err != nil {
		return fmt.Errorf("parse lang: %w", err)
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "mtrand.generate", trace.WithAttributes(
		attribute.Int("mtrand.count", cfg.Count),
		attribute.String("mtrand.format", cfg.Format),
		attribute.String("mtrand.stream", cfg.Stream),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
		}
		span.End()
	}()

	s, store, err := openStream(ctx, cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer func() {
			if closeErr := store.Close(); closeErr != nil {
				log.Printf("close stream store: %v", closeErr)
			}
		}()
	}
	span.SetAttributes(attribute.Int64("mtrand.seed", int64(s.Seed)))
	startDraws := s.Draws

	w := bufio.NewWriter(out)
	if err := writeValues(ctx, w, cfg, s); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	if store != nil {
		if err := s.Save(ctx, store); err != nil {
			return err
		}
	}
	span.SetAttributes(attribute.Int64("mtrand.draws", int64(s.Draws-startDraws)))

	p := message.NewPrinter(tag)
	seed := strconv.FormatUint(uint64(s.Seed), 10)
	if store != nil {
		p.Fprintf(errOut, "generated %d values (seed %s, stream %s at %d draws)\n", cfg.Count, seed, s.Name, s.Draws)
	} else {
		p.Fprintf(errOut, "generated %d values (seed %s)\n", cfg.Count, seed)
	}
	return nil
}

func resolveSeed(value string) (uint32, error) {
	if strings.TrimSpace(value) == "" {
		return random.NewSeed()
	}
	return random.ParseSeed(value)
}

// snapshotStore is the persistence the command needs for named streams.
type snapshotStore interface {
	stream.Store
	Close() error
}

// openStore is replaced in tests.
var openStore = func(path string) (snapshotStore, error) {
	store, err := sqlite.Open(path)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// openStream returns the stream to draw from and, for named streams, the
// open store the caller must close. The seed is only resolved when no saved
// position exists.
func openStream(ctx context.Context, cfg Config) (*stream.Stream, snapshotStore, error) {
	name := strings.TrimSpace(cfg.Stream)
	if name == "" {
		seed, err := resolveSeed(cfg.Seed)
		if err != nil {
			return nil, nil, err
		}
		return stream.New("", seed), nil, nil
	}

	store, err := openStore(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open stream store: %w", err)
	}
	fresh := false
	s, err := stream.Open(ctx, store, name, func() (uint32, error) {
		fresh = true
		return resolveSeed(cfg.Seed)
	})
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	if !fresh && strings.TrimSpace(cfg.Seed) != "" {
		log.Printf("stream %s resumes seed %d; ignoring seed %s", s.Name, s.Seed, strings.TrimSpace(cfg.Seed))
	}
	return s, store, nil
}

func writeValues(ctx context.Context, w io.Writer, cfg Config, s *stream.Stream) error {
	var specs []dice.DiceSpec
	var rng *rand.Rand
	if cfg.Format == FormatDice {
		parsed, err := dice.ParseSpecs(cfg.Dice)
		if err != nil {
			return fmt.Errorf("parse dice: %w", err)
		}
		specs = parsed
		rng = rand.New(s)
	}

	for i := 0; i < cfg.Count; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		var err error
		switch cfg.Format {
		case FormatUint:
			_, err = fmt.Fprintln(w, strconv.FormatUint(uint64(s.Uint32()), 10))
		case FormatFloat:
			_, err = fmt.Fprintln(w, strconv.FormatFloat(s.Float64(), 'g', -1, 64))
		case FormatHex:
			_, err = fmt.Fprintf(w, "%08x\n", s.Uint32())
		case FormatDice:
			err = writeRoll(w, rng, specs)
		}
		if err != nil {
			return fmt.Errorf("write value: %w", err)
		}
	}
	return nil
}

func writeRoll(w io.Writer, rng *rand.Rand, specs []dice.DiceSpec) error {
	result, err := dice.Roll(rng, specs)
	if err != nil {
		return err
	}
	parts := make([]string, 0, len(result.Rolls))
	for i, roll := range result.Rolls {
		values := make([]string, len(roll.Results))
		for j, v := range roll.Results {
			values[j] = strconv.Itoa(v)
		}
		parts = append(parts, specs[i].String()+" "+strings.Join(values, " "))
	}
	_, err = fmt.Fprintf(w, "%s = %d\n", strings.Join(parts, "; "), result.Total)
	return err
}
