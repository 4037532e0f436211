package tournament

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"
)

// DriverSnapshot is the serialized form of a Driver.
type DriverSnapshot struct {
	Name     string `json:"name"`
	Division string `json:"division"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	Races    []int  `json:"races"`
	Status   Status `json:"status"`
}

// RaceSnapshot is the serialized form of a Race. Timestamp is RFC 3339.
type RaceSnapshot struct {
	RaceNumber int      `json:"race_number"`
	Driver1    string   `json:"driver1"`
	Driver2    string   `json:"driver2"`
	Winner     string   `json:"winner"`
	Division   string   `json:"division"`
	Timestamp  string   `json:"timestamp"`
	Driver3    *string  `json:"driver3"`
	RaceType   RaceType `json:"race_type"`
}

// Snapshot is the full tournament state.
//
// Order holds the driver keys in iteration order. It is not a JSON field:
// MarshalJSON writes the drivers object in this order and ParseSnapshot
// fills it from the order of the keys in the input.
type Snapshot struct {
	Drivers     map[string]DriverSnapshot `json:"drivers"`
	Order       []string                  `json:"-"`
	Races       []RaceSnapshot            `json:"races"`
	RaceCounter int                       `json:"race_counter"`
}

// Keys returns the driver keys in iteration order. Keys missing from Order
// follow in lexical order.
func (s Snapshot) Keys() []string {
	keys := make([]string, 0, len(s.Drivers))
	seen := make(map[string]struct{}, len(s.Drivers))
	for _, k := range s.Order {
		if _, ok := s.Drivers[k]; !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	var rest []string
	for k := range s.Drivers {
		if _, ok := seen[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// MarshalJSON writes drivers in iteration order.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"drivers":{`)
	for i, key := range s.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(s.Drivers[key])
		if err != nil {
			return nil, fmt.Errorf("marshal driver %q: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteString(`},"races":`)

	races := s.Races
	if races == nil {
		races = []RaceSnapshot{}
	}
	r, err := json.Marshal(races)
	if err != nil {
		return nil, fmt.Errorf("marshal races: %w", err)
	}
	buf.Write(r)
	fmt.Fprintf(&buf, `,"race_counter":%d}`, s.RaceCounter)
	return buf.Bytes(), nil
}

// Export returns the current state as a snapshot.
func (m *Manager) Export() Snapshot {
	s := Snapshot{
		Drivers:     make(map[string]DriverSnapshot, len(m.drivers)),
		Order:       slices.Clone(m.order),
		Races:       make([]RaceSnapshot, len(m.races)),
		RaceCounter: m.raceCounter,
	}
	for _, name := range m.order {
		s.Drivers[name] = m.drivers[name].Snapshot()
	}
	for i, r := range m.races {
		s.Races[i] = r.Snapshot()
	}
	return s
}

// Import replaces all drivers, races and the race counter with the contents
// of s. Divisions and race references are not validated.
func (m *Manager) Import(s Snapshot) error {
	races := make([]Race, len(s.Races))
	for i, rs := range s.Races {
		r, err := rs.race(m.now)
		if err != nil {
			return fmt.Errorf("race %d: %w", rs.RaceNumber, err)
		}
		races[i] = r
	}

	keys := s.Keys()
	drivers := make(map[string]*Driver, len(keys))
	for _, key := range keys {
		ds := s.Drivers[key]
		drivers[key] = ds.driver()
	}

	m.drivers = drivers
	m.order = keys
	m.races = races
	m.raceCounter = s.RaceCounter
	return nil
}

func (ds DriverSnapshot) driver() *Driver {
	races := make([]int, len(ds.Races))
	copy(races, ds.Races)
	status := ds.Status
	if status == "" {
		status = StatusActive
	}
	return &Driver{
		Name:     ds.Name,
		Division: ds.Division,
		Wins:     ds.Wins,
		Losses:   ds.Losses,
		Races:    races,
		Status:   status,
	}
}

// TimestampLayout is the format race timestamps are written in, both in
// snapshots and in API responses.
const TimestampLayout = time.RFC3339Nano

// timestampLayouts are tried in order when reading race timestamps. The
// zone-less layouts accept ISO timestamps without an offset, read as local time.
var timestampLayouts = []string{
	TimestampLayout,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

func (rs RaceSnapshot) race(now func() time.Time) (Race, error) {
	ts := now()
	if rs.Timestamp != "" {
		t, err := parseTimestamp(rs.Timestamp)
		if err != nil {
			return Race{}, err
		}
		ts = t
	}
	raceType := rs.RaceType
	if raceType == "" {
		raceType = RaceRegular
	}
	r := Race{
		Number:    rs.RaceNumber,
		Driver1:   rs.Driver1,
		Driver2:   rs.Driver2,
		Winner:    rs.Winner,
		Division:  rs.Division,
		Type:      raceType,
		Timestamp: ts,
	}
	if rs.Driver3 != nil {
		r.Driver3 = *rs.Driver3
	}
	return r, nil
}

// --------------------------------------------------------------------------
// Decoding
// --------------------------------------------------------------------------

type wireDriver struct {
	Name     *string `json:"name"`
	Division *string `json:"division"`
	Wins     *int    `json:"wins"`
	Losses   *int    `json:"losses"`
	Races    []int   `json:"races"`
	Status   *Status `json:"status"`
}

type wireRace struct {
	RaceNumber *int      `json:"race_number"`
	Driver1    *string   `json:"driver1"`
	Driver2    *string   `json:"driver2"`
	Winner     *string   `json:"winner"`
	Division   *string   `json:"division"`
	Timestamp  *string   `json:"timestamp"`
	Driver3    *string   `json:"driver3"`
	RaceType   *RaceType `json:"race_type"`
}

// orderedDrivers decodes a JSON object while remembering key order.
type orderedDrivers struct {
	present bool
	keys    []string
	values  map[string]wireDriver
}

func (o *orderedDrivers) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("drivers must be an object")
	}

	o.values = make(map[string]wireDriver)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key := tok.(string)
		var d wireDriver
		if err := dec.Decode(&d); err != nil {
			return fmt.Errorf("driver %q: %w", key, err)
		}
		if _, dup := o.values[key]; !dup {
			o.keys = append(o.keys, key)
		}
		o.values[key] = d
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	o.present = true
	return nil
}

type wireSnapshot struct {
	Drivers     orderedDrivers `json:"drivers"`
	Races       *[]wireRace    `json:"races"`
	RaceCounter *int           `json:"race_counter"`
}

// ParseSnapshot decodes a tournament snapshot. The drivers and races keys are
// required, as are each driver's name and division and each race's number,
// drivers, winner and division. Missing wins and losses default to 0, races
// to empty, status to ACTIVE, race_type to regular and race_counter to the
// number of races. A missing race timestamp is filled in on Import.
func ParseSnapshot(data []byte) (Snapshot, error) {
	var w wireSnapshot
	if err := json.Unmarshal(data, &w); err != nil {
		return Snapshot{}, fmt.Errorf("parse snapshot: %w", err)
	}
	if !w.Drivers.present {
		return Snapshot{}, errors.New("parse snapshot: missing drivers")
	}
	if w.Races == nil {
		return Snapshot{}, errors.New("parse snapshot: missing races")
	}

	s := Snapshot{
		Drivers: make(map[string]DriverSnapshot, len(w.Drivers.keys)),
		Order:   w.Drivers.keys,
		Races:   make([]RaceSnapshot, 0, len(*w.Races)),
	}

	for _, key := range w.Drivers.keys {
		wd := w.Drivers.values[key]
		if wd.Name == nil || wd.Division == nil {
			return Snapshot{}, fmt.Errorf("parse snapshot: driver %q: name and division are required", key)
		}
		ds := DriverSnapshot{
			Name:     *wd.Name,
			Division: *wd.Division,
			Races:    wd.Races,
			Status:   StatusActive,
		}
		if ds.Races == nil {
			ds.Races = []int{}
		}
		if wd.Wins != nil {
			ds.Wins = *wd.Wins
		}
		if wd.Losses != nil {
			ds.Losses = *wd.Losses
		}
		if wd.Status != nil {
			ds.Status = *wd.Status
		}
		s.Drivers[key] = ds
	}

	for i, wr := range *w.Races {
		if wr.RaceNumber == nil || wr.Driver1 == nil || wr.Driver2 == nil || wr.Winner == nil || wr.Division == nil {
			return Snapshot{}, fmt.Errorf("parse snapshot: race at index %d: race_number, driver1, driver2, winner and division are required", i)
		}
		rs := RaceSnapshot{
			RaceNumber: *wr.RaceNumber,
			Driver1:    *wr.Driver1,
			Driver2:    *wr.Driver2,
			Winner:     *wr.Winner,
			Division:   *wr.Division,
			RaceType:   RaceRegular,
		}
		if wr.Timestamp != nil {
			if _, err := parseTimestamp(*wr.Timestamp); err != nil {
				return Snapshot{}, fmt.Errorf("parse snapshot: race %d: %w", rs.RaceNumber, err)
			}
			rs.Timestamp = *wr.Timestamp
		}
		if wr.Driver3 != nil && *wr.Driver3 != "" {
			d3 := *wr.Driver3
			rs.Driver3 = &d3
		}
		if wr.RaceType != nil {
			rs.RaceType = *wr.RaceType
		}
		s.Races = append(s.Races, rs)
	}

	if w.RaceCounter != nil {
		s.RaceCounter = *w.RaceCounter
	} else {
		s.RaceCounter = len(s.Races)
	}
	return s, nil
}
