package models

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// JarID identifies one of the six fixed budget jars.
type JarID int

const (
	JarNEC JarID = iota // Necessities
	JarLIB              // Financial freedom
	JarALP              // Long-term savings
	JarEDU              // Education
	JarJUE              // Play
	JarDAR              // Give

	NumJars = 6
)

// AllJars lists the jars in their canonical order.
var AllJars = [NumJars]JarID{JarNEC, JarLIB, JarALP, JarEDU, JarJUE, JarDAR}

var jarCodes = [NumJars]string{"NEC", "LIB", "ALP", "EDU", "JUE", "DAR"}

var ErrUnknownJar = errors.New("unknown jar")

// ParseJarID converts a jar code such as "NEC" into a JarID.
func ParseJarID(code string) (JarID, error) {
	for i, c := range jarCodes {
		if c == code {
			return JarID(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownJar, code)
}

// Valid reports whether id is one of the six jars.
func (id JarID) Valid() bool {
	return id >= 0 && id < NumJars
}

func (id JarID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("JarID(%d)", int(id))
	}
	return jarCodes[id]
}

func (id JarID) MarshalText() ([]byte, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownJar, int(id))
	}
	return []byte(jarCodes[id]), nil
}

func (id *JarID) UnmarshalText(b []byte) error {
	parsed, err := ParseJarID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Jar is a budget category with a target share of income and a running balance
// expressed in the owner's base currency.
type Jar struct {
	ID          JarID           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Percentage  decimal.Decimal `json:"percentage"`
	Balance     decimal.Decimal `json:"balance"`
	Color       string          `json:"color"`
}

// JarRegistry holds exactly one Jar per JarID.
type JarRegistry [NumJars]Jar

// DefaultJarRegistry returns the standard 55/10/10/10/10/5 split with empty balances.
func DefaultJarRegistry() JarRegistry {
	return JarRegistry{
		JarNEC: {ID: JarNEC, Name: "Necesidades", Description: "Gastos básicos de vida", Percentage: decimal.NewFromInt(55), Color: "bg-blue-600"},
		JarLIB: {ID: JarLIB, Name: "Libertad Financiera (FFA)", Description: "La gallina de los huevos de oro. ¡Nunca gastar!", Percentage: decimal.NewFromInt(10), Color: "bg-emerald-500"},
		JarALP: {ID: JarALP, Name: "Ahorro Largo Plazo", Description: "Gastos grandes futuros", Percentage: decimal.NewFromInt(10), Color: "bg-cyan-600"},
		JarEDU: {ID: JarEDU, Name: "Educación", Description: "Crecimiento personal y cursos", Percentage: decimal.NewFromInt(10), Color: "bg-violet-600"},
		JarJUE: {ID: JarJUE, Name: "Juego", Description: "Disfrutar sin culpa. Gastar todo a fin de mes.", Percentage: decimal.NewFromInt(10), Color: "bg-pink-500"},
		JarDAR: {ID: JarDAR, Name: "Dar", Description: "Donaciones y caridad", Percentage: decimal.NewFromInt(5), Color: "bg-amber-500"},
	}
}

// Get returns the jar for id.
func (r *JarRegistry) Get(id JarID) *Jar {
	return &r[id]
}

// TotalPercentage sums the configured percentages.
func (r JarRegistry) TotalPercentage() decimal.Decimal {
	total := decimal.Zero
	for _, j := range r {
		total = total.Add(j.Percentage)
	}
	return total
}

// TotalBalance sums the jar balances.
func (r JarRegistry) TotalBalance() decimal.Decimal {
	total := decimal.Zero
	for _, j := range r {
		total = total.Add(j.Balance)
	}
	return total
}

// WithConfig copies name, description, percentage and color from cfg,
// keeping the receiver's balances.
func (r JarRegistry) WithConfig(cfg JarRegistry) JarRegistry {
	out := r
	for _, id := range AllJars {
		out[id].Name = cfg[id].Name
		out[id].Description = cfg[id].Description
		out[id].Percentage = cfg[id].Percentage
		out[id].Color = cfg[id].Color
	}
	return out
}

// MarshalJSON encodes the registry as an object keyed by jar code.
func (r JarRegistry) MarshalJSON() ([]byte, error) {
	m := make(map[string]Jar, NumJars)
	for _, id := range AllJars {
		j := r[id]
		j.ID = id
		m[id.String()] = j
	}
	return json.Marshal(m)
}

// UnmarshalJSON requires all six jar codes to be present.
func (r *JarRegistry) UnmarshalJSON(b []byte) error {
	var m map[string]Jar
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	if len(m) != NumJars {
		return fmt.Errorf("jar registry must contain exactly %d jars, got %d", NumJars, len(m))
	}
	var out JarRegistry
	for code, j := range m {
		id, err := ParseJarID(code)
		if err != nil {
			return err
		}
		j.ID = id
		out[id] = j
	}
	*r = out
	return nil
}
