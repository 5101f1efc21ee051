package entity

// PhysicianSession remembers who used a device on a given calendar day.
type PhysicianSession struct {
	Name string `json:"name"`
	Date string `json:"date"` // yyyy-mm-dd
}

const SessionDateLayout = "2006-01-02"
