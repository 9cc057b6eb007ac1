package geo

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// CoordinateParser extracts a coordinate from a geographic lookup page.
// Implementations do not range-check the result.
type CoordinateParser interface {
	Parse(page string) (Coordinate, error)
}

const (
	ParserLegacy = "legacy"
	ParserStrict = "strict"
)

// NewParser returns the parser registered under name. An empty name selects the legacy parser.
func NewParser(name string) (CoordinateParser, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ParserLegacy:
		return LegacyDMSParser{}, nil
	case ParserStrict:
		return StrictDMSParser{}, nil
	default:
		return nil, fmt.Errorf("unknown coordinate parser %q", name)
	}
}

// Only the first fragment on a single line is used.
var dmsFragmentPattern = regexp.MustCompile(`<td nowrap>[NS].+[WE].+</td>`)

const (
	degreeMark = "°"
	minuteMark = "'"
	secondMark = "''"

	// unsetComponent is what a degree, minute or second holds until a token sets it.
	unsetComponent = 999
)

// findFragment returns the text of every table cell in the first coordinate fragment.
func findFragment(page string) ([]string, error) {
	fragment := dmsFragmentPattern.FindString(page)
	if fragment == "" {
		return nil, fmt.Errorf("%w: no coordinate cell found", ErrCoordinateLookupFailed)
	}
	return splitCells(fragment), nil
}

func splitCells(fragment string) []string {
	z := html.NewTokenizer(strings.NewReader(fragment))

	var (
		cells   []string
		current strings.Builder
		inCell  bool
	)

	for {
		switch z.Next() {
		case html.ErrorToken:
			if inCell && current.Len() > 0 {
				cells = append(cells, current.String())
			}
			return cells
		case html.StartTagToken:
			if z.Token().Data == "td" {
				if inCell && current.Len() > 0 {
					cells = append(cells, current.String())
				}
				current.Reset()
				inCell = true
			}
		case html.EndTagToken:
			if z.Token().Data == "td" && inCell {
				if current.Len() > 0 {
					cells = append(cells, current.String())
				}
				current.Reset()
				inCell = false
			}
		case html.TextToken:
			if inCell {
				current.Write(z.Text())
			}
		}
	}
}

// LegacyDMSParser reproduces the behaviour of the original scraper:
//   - components are not reset between cells,
//   - a seconds token ("26''") overwrites the minutes,
//   - components never seen keep the value 999 and leak into the angle.
//
// The last two are known defects and are kept so results stay comparable with
// files produced earlier. Use StrictDMSParser for textbook DMS arithmetic.
type LegacyDMSParser struct{}

func (LegacyDMSParser) Parse(page string) (Coordinate, error) {
	cells, err := findFragment(page)
	if err != nil {
		return Coordinate{}, err
	}

	degree, minute, second := unsetComponent, unsetComponent, unsetComponent
	var coord Coordinate

	for _, cell := range cells {
		fields := strings.Fields(cell)
		for i := 1; i < len(fields); i++ {
			token := fields[i]
			switch {
			case strings.Contains(token, degreeMark):
				v, err := parseComponent(token, degreeMark)
				if err != nil {
					return Coordinate{}, err
				}
				degree = v
			case strings.Contains(token, minuteMark):
				v, err := parseComponent(token, minuteMark)
				if err != nil {
					return Coordinate{}, err
				}
				minute = v
			}
		}

		angle := float64(degree) + float64(minute)/60 + float64(second)/3600
		if strings.Contains(cell, "N") {
			coord.Latitude = angle
		} else if strings.Contains(cell, "S") {
			coord.Latitude = -angle
		}
		if strings.Contains(cell, "E") {
			coord.Longitude = angle
		} else if strings.Contains(cell, "W") {
			coord.Longitude = -angle
		}
	}

	return coord, nil
}

func parseComponent(token, mark string) (int, error) {
	raw := strings.SplitN(token, mark, 2)[0]
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: bad component %q: %v", ErrCoordinateLookupFailed, token, err)
	}
	return v, nil
}

// StrictDMSParser reads each cell as one angle: a leading hemisphere letter
// followed by degrees, minutes and seconds. Missing components count as zero.
type StrictDMSParser struct{}

func (StrictDMSParser) Parse(page string) (Coordinate, error) {
	cells, err := findFragment(page)
	if err != nil {
		return Coordinate{}, err
	}

	var (
		coord            Coordinate
		haveLat, haveLon bool
	)

	for _, cell := range cells {
		fields := strings.Fields(cell)
		if len(fields) == 0 {
			continue
		}

		hemisphere := fields[0]
		if hemisphere != "N" && hemisphere != "S" && hemisphere != "E" && hemisphere != "W" {
			continue
		}

		var degree, minute, second float64
		for _, token := range fields[1:] {
			var (
				target *float64
				mark   string
			)
			switch {
			case strings.HasSuffix(token, secondMark):
				target, mark = &second, secondMark
			case strings.HasSuffix(token, `"`):
				target, mark = &second, `"`
			case strings.HasSuffix(token, minuteMark):
				target, mark = &minute, minuteMark
			case strings.HasSuffix(token, degreeMark):
				target, mark = &degree, degreeMark
			default:
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSuffix(token, mark), 64)
			if err != nil {
				return Coordinate{}, fmt.Errorf("%w: bad component %q: %v", ErrCoordinateLookupFailed, token, err)
			}
			*target = v
		}

		angle := degree + minute/60 + second/3600
		switch hemisphere {
		case "N":
			coord.Latitude, haveLat = angle, true
		case "S":
			coord.Latitude, haveLat = -angle, true
		case "E":
			coord.Longitude, haveLon = angle, true
		case "W":
			coord.Longitude, haveLon = -angle, true
		}
	}

	if !haveLat || !haveLon {
		return Coordinate{}, fmt.Errorf("%w: incomplete coordinate fragment", ErrCoordinateLookupFailed)
	}
	return coord, nil
}
