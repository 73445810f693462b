package discount

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Loader reads a discount-code source into a Set. Sources are CSV lines of
// "CODE,PERCENT", gzipped when the name ends in .gz.
type Loader interface {
	Load(ctx context.Context, source string) (Set, error)
}

// fileLoader implements Loader for local discount files.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based discount loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "discount-loader").Logger(),
	}
}

// Load reads a discount file and returns a Set.
func (l *fileLoader) Load(ctx context.Context, filePath string) (Set, error) {
	l.logger.Info().Str("file", filePath).Msg("loading discount file")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open discount file")
		return nil, fmt.Errorf("failed to open discount file %s: %w", filePath, err)
	}
	defer file.Close()

	set, err := parseCodes(ctx, file, filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to parse discount file")
		return nil, err
	}

	l.logger.Info().
		Str("file", filePath).
		Int("codes_loaded", set.Size()).
		Msg("discount file loaded successfully")

	return set, nil
}

// parseCodes reads "CODE,PERCENT" lines, transparently ungzipping sources
// named *.gz. Blank lines and lines starting with '#' are skipped.
func parseCodes(ctx context.Context, r io.Reader, source string) (*mapSet, error) {
	if strings.HasSuffix(source, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader for %s: %w", source, err)
		}
		defer gz.Close()
		r = gz
	}

	set := NewMapSet(1024)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%100_000 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		code, pctStr, ok := strings.Cut(line, ",")
		if !ok {
			return nil, fmt.Errorf("%s:%d: want CODE,PERCENT, got %q", source, lineNo, line)
		}

		pct, err := strconv.ParseFloat(strings.TrimSpace(pctStr), 64)
		if err != nil || pct <= 0 || pct > 100 {
			return nil, fmt.Errorf("%s:%d: invalid percent %q", source, lineNo, pctStr)
		}

		set.Add(strings.TrimSpace(code), pct)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading discount source %s: %w", source, err)
	}

	return set, nil
}
