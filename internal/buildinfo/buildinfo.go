package buildinfo

import "fmt"

const Graffiti = " ____                         _____              \n|  _ \\ __ _ _ __   __ _  ___|_   _| __ ___  ___ \n| |_) / _` | '_ \\ / _` |/ _ \\ | || '__/ _ \\/ _ \\\n|  _ < (_| | | | | (_| |  __/ | || | |  __/  __/\n|_| \\_\\__,_|_| |_|\\__, |\\___| |_||_|  \\___|\\___|\n                  |___/                         \n\n"

// Set at link time with -ldflags "-X".
var (
	BuildTag string = "v0.0.0"
	Name     string = "RangeTree"
	Time     string = ""
)

type buildinfo struct{}

func (buildinfo) Tag() string {
	return BuildTag
}

func (buildinfo) Name() string {
	return Name
}

func (buildinfo) Time() string {
	return Time
}

// String is the banner line printed under the graffiti.
func (b buildinfo) String() string {
	return fmt.Sprintf("%s: %s, %s", b.Name(), b.Time(), b.Tag())
}

var Info buildinfo
