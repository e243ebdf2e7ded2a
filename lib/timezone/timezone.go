package timezone

import "time"

// Location is the zone export banners and file names are rendered in,
// it defaults to the machine's local zone.
var Location = time.Local

// SetLocation switches Location to the named IANA zone.
func SetLocation(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return err
	}
	Location = loc
	return nil
}

func Now() time.Time {
	return time.Now().In(Location)
}
