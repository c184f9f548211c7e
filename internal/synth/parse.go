package synth

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ============================================================================
// Report Parsing
// ============================================================================
// Timing and power figures come exclusively from parsing tool reports; this
// layer computes nothing itself. The patterns cover the report formats of
// OpenSTA's report_checks and Design Compiler's report_timing, report_area,
// and report_power, which share most of their vocabulary.

var (
	startpointPattern = regexp.MustCompile(`Startpoint:\s+(\S+)`)
	endpointPattern   = regexp.MustCompile(`Endpoint:\s+(\S+)`)
	arrivalPattern    = regexp.MustCompile(`([-\d.]+)\s+data arrival time`)
	slackPattern      = regexp.MustCompile(`([-\d.]+)\s+slack\s+\((?:MET|VIOLATED)\)`)

	cellCountPattern = regexp.MustCompile(`Number of cells:\s+(\d+)`)
	cellAreaPattern  = regexp.MustCompile(`(?:Total cell area|Chip area for (?:top )?module\s+\S+):\s+([\d.]+)`)

	dynamicPowerPattern = regexp.MustCompile(`Total Dynamic Power\s*=\s*([\d.]+)\s*([mun]?W)`)
	leakagePowerPattern = regexp.MustCompile(`Cell Leakage Power\s*=\s*([\d.]+)\s*([mun]?W)`)
)

// parseTimingReport extracts a Timing from a report_checks/report_timing
// style report. Returns an error when the report lacks an arrival time,
// which is how an unusable analysis run surfaces.
func parseTimingReport(out string) (*Timing, error) {
	arrival := arrivalPattern.FindStringSubmatch(out)
	if arrival == nil {
		return nil, fmt.Errorf("timing report has no data arrival time")
	}
	delay, err := strconv.ParseFloat(arrival[1], 64)
	if err != nil || delay <= 0 {
		return nil, fmt.Errorf("timing report arrival time %q unusable", arrival[1])
	}

	t := &Timing{
		CriticalPath: CriticalPath{DelayNs: delay},
		FrequencyMHz: 1000.0 / delay,
	}
	if m := startpointPattern.FindStringSubmatch(out); m != nil {
		t.CriticalPath.Start = m[1]
	}
	if m := endpointPattern.FindStringSubmatch(out); m != nil {
		t.CriticalPath.End = m[1]
	}
	if m := slackPattern.FindStringSubmatch(out); m != nil {
		t.SlackNs, _ = strconv.ParseFloat(m[1], 64)
	}
	return t, nil
}

// parseAreaReport extracts cell count and area figures.
func parseAreaReport(out string) (Area, error) {
	var area Area
	if m := cellCountPattern.FindStringSubmatch(out); m != nil {
		area.Cells, _ = strconv.Atoi(m[1])
	}
	if m := cellAreaPattern.FindStringSubmatch(out); m != nil {
		area.AreaUm2, _ = strconv.ParseFloat(m[1], 64)
	}
	if area.Cells == 0 && area.AreaUm2 == 0 {
		return area, fmt.Errorf("area report has no cell or area figures")
	}
	return area, nil
}

// parsePowerReport extracts dynamic and leakage power, normalized to mW.
func parsePowerReport(out string) (Power, error) {
	var power Power
	found := false
	if m := dynamicPowerPattern.FindStringSubmatch(out); m != nil {
		power.DynamicMw = toMilliwatts(m[1], m[2])
		found = true
	}
	if m := leakagePowerPattern.FindStringSubmatch(out); m != nil {
		power.StaticMw = toMilliwatts(m[1], m[2])
		found = true
	}
	if !found {
		return power, fmt.Errorf("power report has no power figures")
	}
	power.TotalMw = power.DynamicMw + power.StaticMw
	return power, nil
}

func toMilliwatts(value, unit string) float64 {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	switch strings.ToLower(unit) {
	case "w":
		return v * 1000
	case "mw":
		return v
	case "uw":
		return v / 1000
	case "nw":
		return v / 1e6
	default:
		return v
	}
}
