package directory

// SeedDocument is the default routing configuration shipped with the
// service: the campus facility departments, the complaint categories
// each one owns, and the floor keys encoded in location QR tags.
func SeedDocument() Document {
	return Document{
		Version:            "seed-1",
		FallbackDepartment: "general",
		Departments: []DepartmentEntry{
			{
				ID:   "civil",
				Name: "Civil",
				Categories: []string{
					"wall", "ceiling", "floor", "window", "door",
					"furniture", "structure", "fire", "civil-other",
				},
				Floors: []string{"1"},
			},
			{
				ID:   "electrical",
				Name: "Electrical",
				Categories: []string{
					"electrical", "lighting", "power", "switch", "fan",
					"electrical-safety", "electrical-other",
				},
				Floors: []string{"4"},
			},
			{
				ID:   "mechanical",
				Name: "Mechanical",
				Categories: []string{
					"ac", "heating", "plumbing", "drainage", "ventilation",
					"elevator", "mechanical-other",
				},
				Floors: []string{"5"},
			},
			{
				ID:   "it",
				Name: "IT",
				Categories: []string{
					"computer", "projector", "network", "lab", "software",
					"printer", "teaching", "it-other",
				},
				Floors: []string{"3"},
			},
			{
				ID:   "housekeeping",
				Name: "Housekeeping",
				Categories: []string{
					"cleanliness", "washroom", "garbage", "pest", "garden",
					"maintenance", "security", "housekeeping-other",
				},
				Floors: []string{},
			},
			{
				ID:     "first-year",
				Name:   "First Year",
				Floors: []string{"2"},
			},
			{
				ID:   "general",
				Name: "General",
			},
		},
	}
}

// Seed returns a Directory built from SeedDocument. The seed tables are
// internally consistent, so construction cannot fail.
func Seed() *Directory {
	d, err := New(SeedDocument())
	if err != nil {
		panic(err)
	}
	return d
}
