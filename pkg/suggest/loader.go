package suggest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bastiangx/completer/internal/utils"
	"github.com/charmbracelet/log"
)

// Load reads "word [frequency]" lines. Blank lines and lines starting with '#' are
// skipped, a missing frequency counts as 1 and words that are bare numbers, contain
// special characters or repeat a single letter are ignored. Loading stops once the
// dictionary holds its maximum number of words.
func (d *Dictionary) Load(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	added := 0
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		if d.maxWords > 0 && d.Len() >= d.maxWords {
			log.Debugf("Dictionary reached max_words=%d at line %d", d.maxWords, lineNo)
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		word := fields[0]
		freq := 1
		if len(fields) > 1 {
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return added, fmt.Errorf("line %d: invalid frequency %q: %w", lineNo, fields[1], err)
			}
			freq = n
		}

		if !utils.IsValidWord(word) {
			continue
		}
		d.AddWord(word, freq)
		added++
	}
	if err := scanner.Err(); err != nil {
		return added, fmt.Errorf("read dictionary: %w", err)
	}
	return added, nil
}

// LoadFile opens path and feeds it to Load.
func (d *Dictionary) LoadFile(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open dictionary %s: %w", path, err)
	}
	defer file.Close()

	n, err := d.Load(file)
	if err != nil {
		return n, fmt.Errorf("%s: %w", path, err)
	}
	log.Debugf("Loaded %s words from %s", utils.FormatWithCommas(n), path)
	return n, nil
}
