package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Asia/Shanghai")
	if err != nil {
		panic(err)
	}
}

// force timestamps to mainland-China local time no matter where the tool
// runs, the backend's dates and exported file names are all expressed in it
func Now() time.Time {
	return time.Now().In(Location)
}
