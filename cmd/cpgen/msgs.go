package cpgen

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort          = "Scaffold C++ projects from templates"
	MsgUpdateShort        = "Download the latest templates"
	MsgNewProjectShort    = "Create a new project"
	MsgAddLibraryShort    = "Add a library to a project"
	MsgAddExecutableShort = "Add an executable to a project"
	MsgAddExecutableLong  = "Add an executable to the project containing the current directory, or to --project."
	MsgAddTestShort       = "Add a test to a project"
	MsgAddTestLong        = "Add a test to the project containing the current directory, or to --project."
	MsgConfigShort        = "Print the effective configuration"
	MsgVersionShort       = "Print version information"
	MsgCompletionShort    = "Generate shell completion script"
	MsgManShort           = "Generate man pages"

	// Status messages
	MsgDownloading         = "Downloading templates from %s"
	MsgKeepingOldTemplates = "Template refresh failed, using the templates already installed"
	MsgManWritten          = "Man pages written to %s\n"

	// Error messages
	MsgErrNoCommand  = "no command specified"
	MsgErrWorkingDir = "failed to determine working directory: %w"

	// Flag descriptions
	MsgFlagVerbose      = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagStrict       = "Fail when placeholders remain unresolved after substitution"
	MsgFlagConfig       = "Configuration file (default $XDG_CONFIG_HOME/cpgen/config.toml)"
	MsgFlagOutput       = "Output style: auto, term or text"
	MsgFlagUpdate       = "Refresh the templates before creating"
	MsgFlagName         = "Name of the project or component"
	MsgFlagVersion      = "Project version (default from configuration)"
	MsgFlagDescription  = "Project description"
	MsgFlagConanPkgs    = "Conan package reference (repeatable)"
	MsgFlagCMakePkgs    = "CMake package for find_package (repeatable)"
	MsgFlagRoot         = "Directory the project is created in"
	MsgFlagWithLibrary  = "Add a library with default settings (repeatable)"
	MsgFlagWithExe      = "Add an executable with default settings (repeatable)"
	MsgFlagWithTest     = "Add a test with default settings (repeatable)"
	MsgFlagLibraryType  = "Library type: static, shared, header_only or module (default from configuration)"
	MsgFlagStd          = "C++ standard (default from configuration)"
	MsgFlagDependencies = "Target linked by the component (repeatable)"
	MsgFlagProject      = "Project root (default: discovered from the working directory)"
	MsgFlagFormat       = "Output format: toml or yaml"
	MsgFlagManDir       = "Directory the man pages are written to"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/update-long.txt
	msgUpdateLongRaw string
	MsgUpdateLong    = strings.TrimSpace(msgUpdateLongRaw)

	//go:embed msgs/new-project-long.txt
	msgNewProjectLongRaw string
	MsgNewProjectLong    = strings.TrimSpace(msgNewProjectLongRaw)

	//go:embed msgs/new-project-example.txt
	msgNewProjectExampleRaw string
	MsgNewProjectExample    = strings.TrimRight(msgNewProjectExampleRaw, "\n")

	//go:embed msgs/add-library-long.txt
	msgAddLibraryLongRaw string
	MsgAddLibraryLong    = strings.TrimSpace(msgAddLibraryLongRaw)

	//go:embed msgs/add-library-example.txt
	msgAddLibraryExampleRaw string
	MsgAddLibraryExample    = strings.TrimRight(msgAddLibraryExampleRaw, "\n")

	//go:embed msgs/add-executable-example.txt
	msgAddExecutableExampleRaw string
	MsgAddExecutableExample    = strings.TrimRight(msgAddExecutableExampleRaw, "\n")

	//go:embed msgs/add-test-example.txt
	msgAddTestExampleRaw string
	MsgAddTestExample    = strings.TrimRight(msgAddTestExampleRaw, "\n")

	//go:embed msgs/config-long.txt
	msgConfigLongRaw string
	MsgConfigLong    = strings.TrimSpace(msgConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"
)
