package beatmap

import (
	"bufio"
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/Givikap120/danser-reading/app/beatmap/difficulty"
	"github.com/Givikap120/danser-reading/app/beatmap/objects"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	typeCircle   = 1
	typeSlider   = 2
	typeNewCombo = 4
	typeSpinner  = 8
)

var ErrNoHitObjects = errors.New("beatmap has no hit objects")

// ErrUnsupportedMode is returned for non-standard rulesets
var ErrUnsupportedMode = errors.New("only osu!standard beatmaps are supported")

// ParseError points at the line that failed to parse.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse beatmap %s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func ParseFile(path string) (*BeatMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read beatmap: %w", err)
	}

	return Parse(path, bytes.NewReader(data))
}

// Parse reads a .osu file. The name is used in errors only.
func Parse(name string, reader io.Reader) (*BeatMap, error) {
	hash := md5.New()

	scanner := bufio.NewScanner(io.TeeReader(reader, hash))
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	beatMap := &BeatMap{
		SliderMultiplier: 1.4,
		SliderTickRate:   1,
	}

	hp, cs, od, ar := 5.0, 5.0, 5.0, -1.0

	var rawObjects []string
	var objectLines []int

	section := ""
	lineNumber := 0

	for scanner.Scan() {
		lineNumber++

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = line[1 : len(line)-1]
			continue
		}

		wrap := func(err error) error {
			return &ParseError{Path: name, Line: lineNumber, Err: err}
		}

		switch section {
		case "General", "Metadata", "Difficulty":
			key, value, ok := strings.Cut(line, ":")
			if !ok {
				continue
			}

			key, value = strings.TrimSpace(key), strings.TrimSpace(value)

			var err error

			switch key {
			case "Mode":
				beatMap.Mode, err = strconv.Atoi(value)
			case "Title":
				beatMap.Name = value
			case "Artist":
				beatMap.Artist = value
			case "Creator":
				beatMap.Creator = value
			case "Version":
				beatMap.Version = value
			case "HPDrainRate":
				hp, err = parseFloat(value)
			case "CircleSize":
				cs, err = parseFloat(value)
			case "OverallDifficulty":
				od, err = parseFloat(value)
			case "ApproachRate":
				ar, err = parseFloat(value)
			case "SliderMultiplier":
				beatMap.SliderMultiplier, err = parseFloat(value)
			case "SliderTickRate":
				beatMap.SliderTickRate, err = parseFloat(value)
			}

			if err != nil {
				return nil, wrap(fmt.Errorf("invalid %s: %w", key, err))
			}
		case "TimingPoints":
			point, err := parseTimingPoint(line)
			if err != nil {
				return nil, wrap(err)
			}

			beatMap.TimingPoints = append(beatMap.TimingPoints, point)
		case "HitObjects":
			rawObjects = append(rawObjects, line)
			objectLines = append(objectLines, lineNumber)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read beatmap %s: %w", name, err)
	}

	if beatMap.Mode != 0 {
		return nil, ErrUnsupportedMode
	}

	// old beatmaps share AR with OD
	if ar < 0 {
		ar = od
	}

	beatMap.Diff = difficulty.NewDifficulty(hp, cs, od, ar)

	sort.SliceStable(beatMap.TimingPoints, func(i, j int) bool {
		return beatMap.TimingPoints[i].Time < beatMap.TimingPoints[j].Time
	})

	for i, raw := range rawObjects {
		obj, err := beatMap.parseHitObject(len(beatMap.HitObjects), raw)
		if err != nil {
			return nil, &ParseError{Path: name, Line: objectLines[i], Err: err}
		}

		if obj != nil {
			beatMap.HitObjects = append(beatMap.HitObjects, obj)
		}
	}

	if len(beatMap.HitObjects) == 0 {
		return nil, ErrNoHitObjects
	}

	sort.SliceStable(beatMap.HitObjects, func(i, j int) bool {
		return beatMap.HitObjects[i].GetStartTime() < beatMap.HitObjects[j].GetStartTime()
	})

	beatMap.MD5 = hex.EncodeToString(hash.Sum(nil))

	return beatMap, nil
}

func parseTimingPoint(line string) (TimingPoint, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 2 {
		return TimingPoint{}, fmt.Errorf("timing point %q: expected at least 2 fields", line)
	}

	time, err := parseFloat(fields[0])
	if err != nil {
		return TimingPoint{}, fmt.Errorf("timing point time: %w", err)
	}

	beatLength, err := parseFloat(fields[1])
	if err != nil {
		return TimingPoint{}, fmt.Errorf("timing point beat length: %w", err)
	}

	inherited := beatLength < 0

	if len(fields) > 6 {
		inherited = strings.TrimSpace(fields[6]) == "0"
	}

	return TimingPoint{Time: time, BeatLength: beatLength, Inherited: inherited}, nil
}

func (beatMap *BeatMap) parseHitObject(id int, line string) (objects.IHitObject, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 4 {
		return nil, fmt.Errorf("hit object %q: expected at least 4 fields", line)
	}

	x, err := parseFloat(fields[0])
	if err != nil {
		return nil, fmt.Errorf("hit object x: %w", err)
	}

	y, err := parseFloat(fields[1])
	if err != nil {
		return nil, fmt.Errorf("hit object y: %w", err)
	}

	time, err := parseFloat(fields[2])
	if err != nil {
		return nil, fmt.Errorf("hit object time: %w", err)
	}

	objType, err := strconv.Atoi(strings.TrimSpace(fields[3]))
	if err != nil {
		return nil, fmt.Errorf("hit object type: %w", err)
	}

	newCombo := objType&typeNewCombo > 0
	position := mgl64.Vec2{x, y}

	switch {
	case objType&typeCircle > 0:
		return objects.NewCircle(id, position, time, newCombo), nil
	case objType&typeSpinner > 0:
		if len(fields) < 6 {
			return nil, fmt.Errorf("spinner %q: missing end time", line)
		}

		endTime, err := parseFloat(fields[5])
		if err != nil {
			return nil, fmt.Errorf("spinner end time: %w", err)
		}

		return objects.NewSpinner(id, time, endTime, newCombo), nil
	case objType&typeSlider > 0:
		return beatMap.parseSlider(id, fields, position, time, newCombo)
	}

	// mania holds and unknown types are ignored
	return nil, nil
}

func (beatMap *BeatMap) parseSlider(id int, fields []string, position mgl64.Vec2, time float64, newCombo bool) (objects.IHitObject, error) {
	if len(fields) < 8 {
		return nil, fmt.Errorf("slider %q: expected at least 8 fields", strings.Join(fields, ","))
	}

	points := []mgl64.Vec2{position}

	// first element is curve type
	for _, raw := range strings.Split(fields[5], "|")[1:] {
		xs, ys, ok := strings.Cut(raw, ":")
		if !ok {
			return nil, fmt.Errorf("slider control point %q", raw)
		}

		px, err := parseFloat(xs)
		if err != nil {
			return nil, fmt.Errorf("slider control point x: %w", err)
		}

		py, err := parseFloat(ys)
		if err != nil {
			return nil, fmt.Errorf("slider control point y: %w", err)
		}

		point := mgl64.Vec2{px, py}

		// repeated points mark bezier segment boundaries
		if point != points[len(points)-1] {
			points = append(points, point)
		}
	}

	repeats, err := strconv.Atoi(strings.TrimSpace(fields[6]))
	if err != nil {
		return nil, fmt.Errorf("slider repeats: %w", err)
	}

	pixelLength, err := parseFloat(fields[7])
	if err != nil {
		return nil, fmt.Errorf("slider length: %w", err)
	}

	beatLength, velocity := beatMap.timingAt(time)

	pixelsPerBeat := 100 * beatMap.SliderMultiplier * velocity
	spanDuration := pixelLength / pixelsPerBeat * beatLength

	tickDistance := pixelsPerBeat / beatMap.SliderTickRate

	ticks := 0
	if tickDistance > 0 {
		ticks = max(0, int(math.Ceil(pixelLength/tickDistance-0.01))-1)
	}

	return objects.NewSlider(id, points, pixelLength, repeats, time, spanDuration, ticks, newCombo), nil
}

func parseFloat(s string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("value %q is not finite", s)
	}

	return value, nil
}
