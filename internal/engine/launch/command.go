package launch

import (
	"path/filepath"
	"strconv"
	"strings"

	"go.trai.ch/quarry/internal/core/domain"
)

// CommandInput is everything the game invocation is assembled from.
type CommandInput struct {
	Java       string
	NativesDir string
	Classpath  []string
	MainClass  string
	VersionID  string
	GameDir    string
	AssetsDir  string
	// AssetIndex is omitted from the command when empty.
	AssetIndex string
	Session    domain.Session
	Settings   domain.Settings
	// Separator joins the classpath. It defaults to the OS list separator.
	Separator string
}

// BuildCommand assembles the process specification. Absent session
// identifiers are replaced by the offline placeholders.
func BuildCommand(in CommandInput) domain.ProcessSpec {
	sep := in.Separator
	if sep == "" {
		sep = string(filepath.ListSeparator)
	}

	uuid := in.Session.UUID
	if uuid == "" {
		uuid = domain.OfflineUUID
	}
	token := in.Session.AccessToken
	if token == "" {
		token = domain.OfflineToken
	}

	args := []string{
		"-Xmx" + strconv.Itoa(in.Settings.RAM) + "M",
		"-Djava.library.path=" + in.NativesDir,
		"-cp", strings.Join(in.Classpath, sep),
		in.MainClass,
		"--version", in.VersionID,
		"--gameDir", in.GameDir,
		"--assetsDir", in.AssetsDir,
	}
	if in.AssetIndex != "" {
		args = append(args, "--assetIndex", in.AssetIndex)
	}
	args = append(args,
		"--uuid", uuid,
		"--accessToken", token,
		"--username", in.Session.Username,
		"--userType", "msa",
		"--userProperties", "{}",
		"--width", strconv.Itoa(in.Settings.Width),
		"--height", strconv.Itoa(in.Settings.Height),
	)
	if in.Settings.Fullscreen {
		args = append(args, "--fullscreen")
	}

	return domain.ProcessSpec{Path: in.Java, Args: args, Dir: in.GameDir}
}
