package rtimage

import (
	"path/filepath"
	"strings"
)

// couchRule maps a filename substring to a fixed couch angle. The table is
// ordered; the first match wins. This is a naming convention of the QA image
// export, not DICOM metadata.
type couchRule struct {
	substr string
	angle  float64
}

var couchRules = []couchRule{
	{"45_couch", 45},
	{"90_couch", 90},
	{"180_couch", 180},
	{"45m_couch", -45},
	{"90m_couch", -90},
	{"180m_couch", -180},
}

// CouchAngleFromFilename returns the couch angle encoded in the file name,
// or 0 when no known tag is present. The angle is a report label only.
func CouchAngleFromFilename(path string) float64 {
	name := strings.ToLower(filepath.Base(path))
	for _, r := range couchRules {
		if strings.Contains(name, r.substr) {
			return r.angle
		}
	}
	return 0.0
}
