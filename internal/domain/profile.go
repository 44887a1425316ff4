package domain

import (
	"time"
)

// Role of an alumni-network member
type Role string

const (
	RoleStudent Role = "student"
	RoleAlumni  Role = "alumni"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleAlumni:
		return true
	}
	return false
}

// Visibility controls who may read a contact field
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityAlumni  Visibility = "alumni"
	VisibilityPrivate Visibility = "private"
)

// Valid reports whether v is a known visibility level
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityAlumni, VisibilityPrivate:
		return true
	}
	return false
}

// VisibleTo reports whether a field at this level is readable.
// authenticated: viewer has a session; owner: viewer is the profile owner.
func (v Visibility) VisibleTo(authenticated, owner bool) bool {
	if owner {
		return true
	}
	switch v {
	case VisibilityPublic:
		return true
	case VisibilityAlumni:
		return authenticated
	case VisibilityPrivate:
		return false
	}
	return false
}

// Profile is the public-facing member record (profiles table).
// ID equals the owning User.ID.
type Profile struct {
	CreatedAt          time.Time  `gorm:"column:created_at;index" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at" json:"updated_at"`
	GraduationYear     *int       `gorm:"column:graduation_year;index" json:"graduation_year"`
	CGPA               *float64   `gorm:"column:cgpa" json:"cgpa"`
	ExperienceYears    *int       `gorm:"column:experience_years" json:"experience_years"`
	ID                 string     `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	FirstName          string     `gorm:"column:first_name;size:100;not null" json:"first_name"`
	LastName           string     `gorm:"column:last_name;size:100;not null" json:"last_name"`
	Email              string     `gorm:"column:email;size:255" json:"email"`
	Phone              string     `gorm:"column:phone;size:50" json:"phone"`
	PhotoURL           string     `gorm:"column:photo_url;size:500" json:"photo_url"`
	DateOfBirth        string     `gorm:"column:date_of_birth;size:10" json:"date_of_birth"`
	Gender             string     `gorm:"column:gender;size:20" json:"gender"`
	Role               Role       `gorm:"column:role;size:20;not null;default:student" json:"role"`
	Degree             string     `gorm:"column:degree;size:100" json:"degree"`
	Department         string     `gorm:"column:department;size:100" json:"department"`
	RollNumber         string     `gorm:"column:roll_number;size:50" json:"roll_number"`
	JobTitle           string     `gorm:"column:job_title;size:150" json:"job_title"`
	Company            string     `gorm:"column:company;size:150" json:"company"`
	Industry           string     `gorm:"column:industry;size:100" json:"industry"`
	Location           string     `gorm:"column:location;size:150" json:"location"`
	LinkedInURL        string     `gorm:"column:linkedin_url;size:500" json:"linkedin_url"`
	Bio                string     `gorm:"column:bio;type:text" json:"bio"`
	PhoneVisibility    Visibility `gorm:"column:phone_visibility;size:10;default:alumni" json:"phone_visibility"`
	EmailVisibility    Visibility `gorm:"column:email_visibility;size:10;default:alumni" json:"email_visibility"`
	LocationVisibility Visibility `gorm:"column:location_visibility;size:10;default:alumni" json:"location_visibility"`
	Achievements       []string   `gorm:"column:achievements;serializer:json" json:"achievements"`
	Skills             []string   `gorm:"column:skills;serializer:json" json:"skills"`
	Hobbies            []string   `gorm:"column:hobbies;serializer:json" json:"hobbies"`
	HiddenFromSearch   bool       `gorm:"column:hidden_from_search;not null;default:false;index" json:"hidden_from_search"`
}

func (Profile) TableName() string {
	return "profiles"
}

// DisplayName first and last name joined
func (p *Profile) DisplayName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// ApplyVisibility returns a copy with the contact fields the viewer may not
// see blanked out. viewerID "" means an anonymous viewer.
func (p *Profile) ApplyVisibility(viewerID string) *Profile {
	out := *p
	owner := viewerID != "" && viewerID == p.ID
	authenticated := viewerID != ""

	if !p.EmailVisibility.VisibleTo(authenticated, owner) {
		out.Email = ""
	}
	if !p.PhoneVisibility.VisibleTo(authenticated, owner) {
		out.Phone = ""
	}
	if !p.LocationVisibility.VisibleTo(authenticated, owner) {
		out.Location = ""
	}
	if !owner {
		out.HiddenFromSearch = false
		out.PhoneVisibility = ""
		out.EmailVisibility = ""
		out.LocationVisibility = ""
	}
	return &out
}

// UpdateProfileRequest partial update of the caller's own profile.
// Nil fields are left untouched.
type UpdateProfileRequest struct {
	FirstName          *string     `json:"first_name"`
	LastName           *string     `json:"last_name"`
	Phone              *string     `json:"phone"`
	PhotoURL           *string     `json:"photo_url"`
	DateOfBirth        *string     `json:"date_of_birth"`
	Gender             *string     `json:"gender"`
	Role               *Role       `json:"role" validate:"omitempty,role"`
	GraduationYear     *int        `json:"graduation_year"`
	Degree             *string     `json:"degree"`
	Department         *string     `json:"department"`
	RollNumber         *string     `json:"roll_number"`
	CGPA               *float64    `json:"cgpa"`
	JobTitle           *string     `json:"job_title"`
	Company            *string     `json:"company"`
	Industry           *string     `json:"industry"`
	Location           *string     `json:"location"`
	ExperienceYears    *int        `json:"experience_years"`
	LinkedInURL        *string     `json:"linkedin_url"`
	Bio                *string     `json:"bio"`
	Achievements       *[]string   `json:"achievements"`
	Skills             *[]string   `json:"skills"`
	Hobbies            *[]string   `json:"hobbies"`
	PhoneVisibility    *Visibility `json:"phone_visibility" validate:"omitempty,visibility"`
	EmailVisibility    *Visibility `json:"email_visibility" validate:"omitempty,visibility"`
	LocationVisibility *Visibility `json:"location_visibility" validate:"omitempty,visibility"`
	HiddenFromSearch   *bool       `json:"hidden_from_search"`
}

// DirectoryQuery filters for the alumni directory
type DirectoryQuery struct {
	GraduationYear *int   `json:"graduation_year,omitempty"`
	Name           string `json:"name,omitempty"`
	Department     string `json:"department,omitempty"`
	Company        string `json:"company,omitempty"`
	Location       string `json:"location,omitempty"`
	Role           Role   `json:"role,omitempty"`
	Sort           string `json:"sort,omitempty"`
	Page           int    `json:"page"`
	PerPage        int    `json:"per_page"`

	// PublicLocationsOnly restricts the location filter to public locations.
	// Set for anonymous viewers; it is part of the cache key.
	PublicLocationsOnly bool `json:"public_locations_only,omitempty"`
}

// Directory sort keys
const (
	SortByName           = "name"
	SortByGraduationYear = "graduation_year"
	SortByCreatedAt      = "created_at"
)

// DirectoryPage one page of directory results
type DirectoryPage struct {
	Profiles []*Profile `json:"profiles"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PerPage  int        `json:"per_page"`
}
