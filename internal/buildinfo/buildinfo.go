package buildinfo

const Graffiti = " _____  _   __ _____ \n/  ___|| | / //  __ \\\n\\ `--. | |/ / | /  \\/\n `--. \\|    \\ | |    \n/\\__/ /| |\\  \\| \\__/\\\n\\____/ \\_| \\_/ \\____/\n\n"

var (
	BuildTag string = "v0.0.0"
	Name     string = "SKC"
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

var Info buildinfo
