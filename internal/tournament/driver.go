package tournament

// Status is a driver's standing in the tournament.
type Status string

const (
	StatusActive     Status = "ACTIVE"
	StatusEliminated Status = "ELIMINATED"
	StatusInactive   Status = "INACTIVE"
)

// EliminationLosses is the loss count at which a driver is out.
const EliminationLosses = 3

// Driver is a participant and their accumulated record.
type Driver struct {
	Name     string
	Division string
	Wins     int
	Losses   int
	Races    []int
	Status   Status
}

// NewDriver returns a driver with an empty record.
func NewDriver(name, division string) *Driver {
	return &Driver{
		Name:     name,
		Division: division,
		Races:    []int{},
		Status:   StatusActive,
	}
}

// TotalRaces is wins plus losses.
func (d *Driver) TotalRaces() int {
	return d.Wins + d.Losses
}

// WinRatio returns wins / total races, or 0 when the driver has not raced.
func (d *Driver) WinRatio() float64 {
	total := d.TotalRaces()
	if total == 0 {
		return 0
	}
	return float64(d.Wins) / float64(total)
}

// IsEliminated reports whether the driver has reached the loss limit.
func (d *Driver) IsEliminated() bool {
	return d.Losses >= EliminationLosses
}

// AddRaceResult appends raceNumber to the driver's history and counts the
// outcome. It is the only path that changes Wins or Losses.
func (d *Driver) AddRaceResult(raceNumber int, won bool) {
	d.Races = append(d.Races, raceNumber)
	if won {
		d.Wins++
	} else {
		d.Losses++
	}
	d.updateStatus()
}

func (d *Driver) updateStatus() {
	if d.IsEliminated() {
		d.Status = StatusEliminated
	} else {
		d.Status = StatusActive
	}
}

// Snapshot returns the serializable form of the driver.
func (d *Driver) Snapshot() DriverSnapshot {
	races := make([]int, len(d.Races))
	copy(races, d.Races)
	return DriverSnapshot{
		Name:     d.Name,
		Division: d.Division,
		Wins:     d.Wins,
		Losses:   d.Losses,
		Races:    races,
		Status:   d.Status,
	}
}

func (d *Driver) clone() Driver {
	c := *d
	c.Races = make([]int, len(d.Races))
	copy(c.Races, d.Races)
	return c
}
