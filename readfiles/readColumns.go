package readfiles

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var (
	// ErrMalformed is returned for tokens that are not numbers.
	ErrMalformed = errors.New("readfiles: malformed numeric value")
	// ErrNoValues is returned for files without any numeric value.
	ErrNoValues = errors.New("readfiles: no numeric values")
)

// ReadColumnFile reads every number of a whitespace separated text file,
// row by row, into one flat series. Text after '#' is ignored.
func ReadColumnFile(fileName string) (vals []float64, err error) {
	var (
		file *os.File
	)
	if file, err = os.Open(fileName); err != nil {
		return
	}
	defer file.Close()
	if vals, err = ReadColumn(file); err != nil {
		err = fmt.Errorf("%s: %w", fileName, err)
	}
	return
}

func ReadColumn(r io.Reader) (vals []float64, err error) {
	var (
		scanner = bufio.NewScanner(r)
		lineNum int
		val     float64
	)
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if ind := strings.Index(line, "#"); ind >= 0 {
			line = line[:ind]
		}
		for _, tok := range strings.Fields(line) {
			if val, err = strconv.ParseFloat(tok, 64); err != nil {
				err = fmt.Errorf("%w: line %d: %q", ErrMalformed, lineNum, tok)
				return nil, err
			}
			vals = append(vals, val)
		}
	}
	if err = scanner.Err(); err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		err = ErrNoValues
	}
	return
}
