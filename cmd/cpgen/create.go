package cpgen

import (
	"context"
	"fmt"
	"os"

	"github.com/arthur-debert/cpgen/pkg/paths"
	"github.com/arthur-debert/cpgen/pkg/types"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// createOptions are the flags shared by every create command.
type createOptions struct {
	update  bool
	project string
}

func (o *createOptions) addFlags(cmd *cobra.Command, withProject bool) {
	cmd.Flags().BoolVar(&o.update, "update", false, MsgFlagUpdate)
	if withProject {
		cmd.Flags().StringVar(&o.project, "project", "", MsgFlagProject)
	}
}

// ready makes sure templates are available, refreshing them first when
// --update is set.
func (o *createOptions) ready(ctx context.Context, a *app) error {
	if o.update {
		if err := a.update(ctx, true); err != nil {
			return err
		}
	}
	return a.ensureTemplates(ctx)
}

// projectRoot returns --project or the project containing the working directory.
func (o *createOptions) projectRoot(a *app) (string, error) {
	if o.project != "" {
		return o.project, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf(MsgErrWorkingDir, err)
	}
	return a.gen.FindProjectRoot(cwd)
}

// validateNames checks names of one kind before anything is downloaded or
// written.
func validateNames(kind types.ArtifactKind, names ...string) error {
	for _, name := range names {
		if err := paths.ValidateComponentName(string(kind), name); err != nil {
			return err
		}
	}
	return nil
}

func newProjectCmd(opts *globalOptions) *cobra.Command {
	var (
		co          createOptions
		params      types.ProjectParameters
		libraries   []string
		executables []string
		tests       []string
	)

	cmd := &cobra.Command{
		Use:     "new-project",
		Short:   MsgNewProjectShort,
		Long:    MsgNewProjectLong,
		Example: MsgNewProjectExample,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			if err := validateNames(types.KindProject, params.Name); err != nil {
				return err
			}
			if err := validateNames(types.KindLibrary, libraries...); err != nil {
				return err
			}
			if err := validateNames(types.KindExecutable, executables...); err != nil {
				return err
			}
			if err := validateNames(types.KindTest, tests...); err != nil {
				return err
			}
			if err := co.ready(cmd.Context(), a); err != nil {
				return err
			}
			if params.Version == "" {
				params.Version = a.cfg.Defaults.ProjectVersion
			}

			log.Info().
				Str("name", params.Name).
				Str("root", params.RootPath).
				Msg("Creating project")

			ctx := cmd.Context()
			res, err := a.gen.CreateProject(ctx, params)
			if res != nil {
				a.printer.Created(res)
			}
			if err != nil {
				return err
			}

			return a.addDefaults(ctx, res.Destination, libraries, executables, tests)
		},
	}

	cmd.Flags().StringVar(&params.Name, "name", "", MsgFlagName)
	cmd.Flags().StringVar(&params.Version, "version", "", MsgFlagVersion)
	cmd.Flags().StringVar(&params.Description, "description", "", MsgFlagDescription)
	cmd.Flags().StringSliceVar(&params.ConanPackages, "conan-pkgs", nil, MsgFlagConanPkgs)
	cmd.Flags().StringSliceVar(&params.CMakePackages, "cmake-pkgs", nil, MsgFlagCMakePkgs)
	cmd.Flags().StringVar(&params.RootPath, "root", types.DefaultRootPath, MsgFlagRoot)
	cmd.Flags().StringSliceVar(&libraries, "library", nil, MsgFlagWithLibrary)
	cmd.Flags().StringSliceVar(&executables, "executable", nil, MsgFlagWithExe)
	cmd.Flags().StringSliceVar(&tests, "test", nil, MsgFlagWithTest)
	_ = cmd.MarkFlagRequired("name")
	co.addFlags(cmd, false)

	return cmd
}

// addDefaults adds components with configured defaults to a fresh project.
func (a *app) addDefaults(ctx context.Context, projectRoot string, libraries, executables, tests []string) error {
	libType, err := a.cfg.LibraryType()
	if err != nil {
		return err
	}

	for _, name := range libraries {
		p := types.NewLibraryParameters(name)
		p.Type = libType
		p.Standard = a.cfg.Defaults.Standard
		res, err := a.gen.CreateLibrary(ctx, p, projectRoot)
		if err := a.report(res, err); err != nil {
			return err
		}
	}
	for _, name := range executables {
		p := types.NewExecutableParameters(name)
		p.Standard = a.cfg.Defaults.Standard
		res, err := a.gen.CreateExecutable(ctx, p, projectRoot)
		if err := a.report(res, err); err != nil {
			return err
		}
	}
	for _, name := range tests {
		p := types.NewExecutableParameters(name)
		p.Standard = a.cfg.Defaults.Standard
		res, err := a.gen.CreateTest(ctx, p, projectRoot)
		if err := a.report(res, err); err != nil {
			return err
		}
	}
	return nil
}

// report prints a create result, which strict mode returns alongside its error.
func (a *app) report(res *types.CreateResult, err error) error {
	if res != nil {
		a.printer.Created(res)
	}
	return err
}

func newAddLibraryCmd(opts *globalOptions) *cobra.Command {
	var (
		co      createOptions
		params  types.LibraryParameters
		libType string
	)

	cmd := &cobra.Command{
		Use:     "add-library",
		Short:   MsgAddLibraryShort,
		Long:    MsgAddLibraryLong,
		Example: MsgAddLibraryExample,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}

			if err := validateNames(types.KindLibrary, params.Name); err != nil {
				return err
			}

			fallback, err := a.cfg.LibraryType()
			if err != nil {
				return err
			}
			params.Type, err = types.ParseLibraryType(libType, fallback)
			if err != nil {
				return err
			}
			if params.Standard == "" {
				params.Standard = a.cfg.Defaults.Standard
			}

			if err := co.ready(cmd.Context(), a); err != nil {
				return err
			}
			root, err := co.projectRoot(a)
			if err != nil {
				return err
			}

			log.Info().
				Str("name", params.Name).
				Str("type", string(params.Type)).
				Str("project", root).
				Msg("Adding library")

			res, err := a.gen.CreateLibrary(cmd.Context(), params, root)
			return a.report(res, err)
		},
	}

	cmd.Flags().StringVar(&params.Name, "name", "", MsgFlagName)
	cmd.Flags().StringVar(&libType, "type", "", MsgFlagLibraryType)
	cmd.Flags().StringVar(&params.Standard, "std", "", MsgFlagStd)
	cmd.Flags().StringSliceVar(&params.Dependencies, "dependencies", nil, MsgFlagDependencies)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.RegisterFlagCompletionFunc("type", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return types.LibraryTypeNames(), cobra.ShellCompDirectiveNoFileComp
	})
	co.addFlags(cmd, true)

	return cmd
}

// executableKind selects between the executable and test templates, which
// take the same parameters.
type executableKind struct {
	kind                      types.ArtifactKind
	use, short, long, example string
	create                    func(a *app, ctx context.Context, p types.ExecutableParameters, root string) (*types.CreateResult, error)
}

func newAddExecutableCmd(opts *globalOptions) *cobra.Command {
	return newExecutableCmd(opts, executableKind{
		kind:    types.KindExecutable,
		use:     "add-executable",
		short:   MsgAddExecutableShort,
		long:    MsgAddExecutableLong,
		example: MsgAddExecutableExample,
		create: func(a *app, ctx context.Context, p types.ExecutableParameters, root string) (*types.CreateResult, error) {
			return a.gen.CreateExecutable(ctx, p, root)
		},
	})
}

func newAddTestCmd(opts *globalOptions) *cobra.Command {
	return newExecutableCmd(opts, executableKind{
		kind:    types.KindTest,
		use:     "add-test",
		short:   MsgAddTestShort,
		long:    MsgAddTestLong,
		example: MsgAddTestExample,
		create: func(a *app, ctx context.Context, p types.ExecutableParameters, root string) (*types.CreateResult, error) {
			return a.gen.CreateTest(ctx, p, root)
		},
	})
}

func newExecutableCmd(opts *globalOptions, kind executableKind) *cobra.Command {
	var (
		co     createOptions
		params types.ExecutableParameters
	)

	cmd := &cobra.Command{
		Use:     kind.use,
		Short:   kind.short,
		Long:    kind.long,
		Example: kind.example,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			if err := validateNames(kind.kind, params.Name); err != nil {
				return err
			}
			if params.Standard == "" {
				params.Standard = a.cfg.Defaults.Standard
			}
			if err := co.ready(cmd.Context(), a); err != nil {
				return err
			}

			root, err := co.projectRoot(a)
			if err != nil {
				return err
			}

			log.Info().
				Str("command", kind.use).
				Str("name", params.Name).
				Str("project", root).
				Msg("Adding component")

			res, err := kind.create(a, cmd.Context(), params, root)
			return a.report(res, err)
		},
	}

	cmd.Flags().StringVar(&params.Name, "name", "", MsgFlagName)
	cmd.Flags().StringVar(&params.Standard, "std", "", MsgFlagStd)
	cmd.Flags().StringSliceVar(&params.Dependencies, "dependencies", nil, MsgFlagDependencies)
	_ = cmd.MarkFlagRequired("name")
	co.addFlags(cmd, true)

	return cmd
}
