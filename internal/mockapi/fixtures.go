package mockapi

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// Record is one fixture row.
type Record map[string]any

// Dataset is a named collection of records with the fields that may be used
// as equality filters.
type Dataset struct {
	Resource string
	Filters  []string
	Records  []Record
}

var (
	familyNames = []string{"Nguyen", "Tran", "Le", "Pham", "Hoang", "Huynh", "Phan", "Vu", "Vo", "Dang", "Bui", "Do", "Ho", "Ngo", "Duong", "Ly"}
	middleNames = []string{"Van", "Thi", "Minh", "Duc", "Ngoc", "Thanh", "Quoc", "Gia", "Bao", "Kim"}
	givenNames  = []string{"An", "Binh", "Chi", "Dung", "Giang", "Hai", "Hanh", "Khoa", "Lan", "Linh", "Mai", "Nam", "Phuc", "Quan", "Son", "Trang", "Tuan", "Vy", "Yen"}

	complaints  = []string{"Headache", "Fever", "Stomach ache", "Sprained ankle", "Nosebleed", "Allergic reaction", "Cough", "Scraped knee", "Dizziness", "Toothache"}
	nurses      = []string{"Nurse Lan", "Nurse Hoa", "Nurse Tam"}
	medNames    = []string{"Paracetamol", "Ibuprofen", "Cetirizine", "Salbutamol", "Amoxicillin", "Loratadine", "Oral rehydration salts", "Epinephrine", "Hydrocortisone cream", "Antacid"}
	medForms    = []string{"tablet", "syrup", "inhaler", "cream", "injection", "sachet"}
	vaccines    = []string{"MMR", "DTaP", "Hepatitis B", "Polio", "Varicella", "HPV", "Influenza", "Japanese encephalitis"}
	categories  = []string{"first aid", "consumables", "equipment", "hygiene", "diagnostics"}
	itemNames   = []string{"Bandages", "Gauze pads", "Thermometer covers", "Gloves (M)", "Gloves (L)", "Alcohol swabs", "Cold packs", "Face masks", "Hand sanitiser", "Blood pressure cuff", "Pulse oximeter", "Eye wash", "Tongue depressors", "Cotton balls"}
	units       = []string{"box", "pack", "piece", "bottle"}
	roles       = []string{"admin", "nurse", "teacher", "clerk"}
	classLabels = []string{"A", "B", "C"}
)

// fixtureEpoch anchors generated dates so output does not depend on the clock.
var fixtureEpoch = time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)

// Counts sets how many records each resource gets.
type Counts struct {
	Students      int
	HealthRecords int
	Medications   int
	Vaccinations  int
	Inventory     int
	Users         int
}

// DefaultCounts are sized so every screen has several pages.
var DefaultCounts = Counts{
	Students:      240,
	HealthRecords: 415,
	Medications:   38,
	Vaccinations:  520,
	Inventory:     64,
	Users:         27,
}

// GenerateFixtures builds every dataset from seed. The same seed always
// yields the same records.
func GenerateFixtures(seed uint64, counts Counts) map[string]*Dataset {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	pick := func(list []string) string { return list[rng.IntN(len(list))] }

	students := make([]Record, counts.Students)
	names := make([]string, counts.Students)
	for i := range students {
		name := fmt.Sprintf("%s %s %s", pick(familyNames), pick(middleNames), pick(givenNames))
		names[i] = name
		grade := 1 + rng.IntN(12)
		dob := fixtureEpoch.AddDate(-(6 + grade), -rng.IntN(12), -rng.IntN(28))
		status := "active"
		if rng.IntN(10) == 0 {
			status = "inactive"
		}
		students[i] = Record{
			"id":       i + 1,
			"name":     name,
			"grade":    grade,
			"class":    fmt.Sprintf("%d%s", grade, pick(classLabels)),
			"dob":      dob.Format(time.DateOnly),
			"guardian": fmt.Sprintf("%s %s %s", strings.Fields(name)[0], pick(middleNames), pick(givenNames)),
			"status":   status,
		}
	}
	studentName := func() string {
		if len(names) == 0 {
			return ""
		}
		return names[rng.IntN(len(names))]
	}

	health := make([]Record, counts.HealthRecords)
	for i := range health {
		status := "closed"
		if rng.IntN(5) == 0 {
			status = "open"
		}
		health[i] = Record{
			"id":        i + 1,
			"student":   studentName(),
			"date":      fixtureEpoch.AddDate(0, 0, -rng.IntN(365)).Format(time.DateOnly),
			"complaint": pick(complaints),
			"nurse":     pick(nurses),
			"status":    status,
		}
	}

	meds := make([]Record, counts.Medications)
	for i := range meds {
		status := "active"
		if rng.IntN(6) == 0 {
			status = "discontinued"
		}
		meds[i] = Record{
			"id":     i + 1,
			"name":   fmt.Sprintf("%s %dmg", medNames[i%len(medNames)], 50*(1+rng.IntN(10))),
			"form":   pick(medForms),
			"stock":  rng.IntN(200),
			"expiry": fixtureEpoch.AddDate(0, rng.IntN(36), 0).Format(time.DateOnly),
			"status": status,
		}
	}

	vax := make([]Record, counts.Vaccinations)
	for i := range vax {
		status := []string{"complete", "complete", "complete", "due", "overdue"}[rng.IntN(5)]
		vax[i] = Record{
			"id":      i + 1,
			"student": studentName(),
			"vaccine": pick(vaccines),
			"dose":    1 + rng.IntN(3),
			"date":    fixtureEpoch.AddDate(0, 0, -rng.IntN(900)).Format(time.DateOnly),
			"status":  status,
		}
	}

	inventory := make([]Record, counts.Inventory)
	for i := range inventory {
		qty := rng.IntN(150)
		status := "ok"
		switch {
		case qty == 0:
			status = "out"
		case qty < 15:
			status = "low"
		}
		inventory[i] = Record{
			"id":       i + 1,
			"item":     itemNames[i%len(itemNames)],
			"category": pick(categories),
			"quantity": qty,
			"unit":     pick(units),
			"status":   status,
		}
	}

	users := make([]Record, counts.Users)
	for i := range users {
		family, given := pick(familyNames), pick(givenNames)
		users[i] = Record{
			"id":     i + 1,
			"name":   fmt.Sprintf("%s %s", family, given),
			"email":  fmt.Sprintf("%s.%s%d@school.example", strings.ToLower(given), strings.ToLower(family), i+1),
			"role":   pick(roles),
			"active": rng.IntN(8) != 0,
		}
	}

	return map[string]*Dataset{
		"students":       {Resource: "students", Filters: []string{"grade", "status"}, Records: students},
		"health-records": {Resource: "health-records", Filters: []string{"status", "nurse"}, Records: health},
		"medications":    {Resource: "medications", Filters: []string{"status", "form"}, Records: meds},
		"vaccinations":   {Resource: "vaccinations", Filters: []string{"status", "vaccine"}, Records: vax},
		"inventory":      {Resource: "inventory", Filters: []string{"status", "category"}, Records: inventory},
		"users":          {Resource: "users", Filters: []string{"role", "active"}, Records: users},
	}
}
