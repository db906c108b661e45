package model

// Driver describes one driver entry of a session.
//
//nolint:tagliatelle // openf1 field names
type Driver struct {
	DriverNumber int    `json:"driver_number"`
	NameAcronym  string `json:"name_acronym"`
	FullName     string `json:"full_name"`
	TeamName     string `json:"team_name"`
}

type DriverTable []Driver

func (t DriverTable) Header() []string {
	return []string{"driver_number", "name_acronym", "full_name", "team_name"}
}

func (t DriverTable) Records() [][]string {
	ret := make([][]string, 0, len(t))
	for _, d := range t {
		ret = append(ret, []string{formatInt(d.DriverNumber), d.NameAcronym, d.FullName, d.TeamName})
	}
	return ret
}

// Acronyms maps driver numbers to their three letter acronym.
func (t DriverTable) Acronyms() map[int]string {
	ret := make(map[int]string, len(t))
	for _, d := range t {
		if d.NameAcronym != "" {
			ret[d.DriverNumber] = d.NameAcronym
		}
	}
	return ret
}

func DecodeDrivers(rows RawRows) DriverTable {
	ret := make(DriverTable, 0, len(rows))
	for _, row := range rows {
		num, ok := CoerceInt(row["driver_number"]).Get()
		if !ok {
			continue
		}
		ret = append(ret, Driver{
			DriverNumber: num,
			NameAcronym:  coerceString(row["name_acronym"]),
			FullName:     coerceString(row["full_name"]),
			TeamName:     coerceString(row["team_name"]),
		})
	}
	return ret
}
