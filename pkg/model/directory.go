package model

// User is a read-only registry document. Languages drives the translation
// target for incoming chat messages.
type User struct {
	ID        string   `json:"id" bson:"_id"`
	Name      string   `json:"name" bson:"name"`
	Avatar    string   `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Role      string   `json:"role,omitempty" bson:"role,omitempty"`
	Location  string   `json:"location,omitempty" bson:"location,omitempty"`
	Languages []string `json:"languages,omitempty" bson:"languages,omitempty"`
}

// Guide is a read-only registry document. Name, Location and Specialties
// feed the persona context for simulated replies.
type Guide struct {
	ID          string   `json:"id" bson:"_id"`
	Name        string   `json:"name" bson:"name"`
	Avatar      string   `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Location    string   `json:"location,omitempty" bson:"location,omitempty"`
	Languages   []string `json:"languages,omitempty" bson:"languages,omitempty"`
	Specialties []string `json:"specialties,omitempty" bson:"specialties,omitempty"`
	Bio         string   `json:"bio,omitempty" bson:"bio,omitempty"`
	HourlyRate  int      `json:"hourlyRate,omitempty" bson:"hourly_rate,omitempty"`
}
