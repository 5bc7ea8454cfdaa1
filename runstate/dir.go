package runstate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/trellisforge/trellis-build/trbuild"
)

// File path constants.
const (
	RootDir   = "Trellis"
	BuildDir  = "Build"
	StateFile = "state.json"
)

// ProjectDir is the state directory for a project in Trellis.
type ProjectDir struct {
	project trbuild.ProjectID
	path    string
	dir     *os.Root
}

// OpenProject opens the state directory for a project beneath the system's
// default state location. If the directory does not already exist, it is
// created.
//
// It is the caller's responsibility to close the directory when finished
// with it.
func OpenProject(project trbuild.ProjectID) (ProjectDir, error) {
	base, err := defaultBasePath()
	if err != nil {
		return ProjectDir{}, fmt.Errorf("unable to locate the state directory: %w", err)
	}
	return OpenProjectIn(base, project)
}

// OpenProjectIn opens the state directory for a project beneath the given
// base directory. If the directory does not already exist, it is created.
//
// It is the caller's responsibility to close the directory when finished
// with it.
func OpenProjectIn(base string, project trbuild.ProjectID) (ProjectDir, error) {
	if err := project.Validate(); err != nil {
		return ProjectDir{}, err
	}

	// Open the base directory.
	parent, err := os.OpenRoot(base)
	if err != nil {
		return ProjectDir{}, err
	}
	defer parent.Close()

	// Open the {base}/Trellis directory.
	root, err := openOrCreateRootInRoot(parent, RootDir, 0755)
	if err != nil {
		return ProjectDir{}, err
	}
	defer root.Close()

	// Open the {base}/Trellis/Build directory.
	build, err := openOrCreateRootInRoot(root, BuildDir, 0755)
	if err != nil {
		return ProjectDir{}, err
	}
	defer build.Close()

	// Open the {base}/Trellis/Build/{ProjectID} directory.
	dir, err := openOrCreateRootInRoot(build, project.String(), 0755)
	if err != nil {
		return ProjectDir{}, err
	}

	return ProjectDir{
		project: project,
		path:    filepath.Join(base, RootDir, BuildDir, project.String()),
		dir:     dir,
	}, nil
}

// Path returns the absolute path of the directory.
func (d ProjectDir) Path() string {
	return d.path
}

// Load reads the project's saved state. If no state has been saved, it
// returns an error that matches fs.ErrNotExist.
func (d ProjectDir) Load() (State, error) {
	f, err := d.dir.Open(StateFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return State{}, fmt.Errorf("no state has been saved for project %d: %w", d.project, err)
		}
		return State{}, err
	}
	defer f.Close()

	var state State
	if err := json.NewDecoder(f).Decode(&state); err != nil {
		return State{}, fmt.Errorf("the state file for project %d could not be decoded: %w", d.project, err)
	}
	if state.Project != d.project {
		return State{}, fmt.Errorf("the state file for project %d belongs to project %d", d.project, state.Project)
	}

	return state, nil
}

// Save writes the project's state, replacing any state saved previously.
func (d ProjectDir) Save(state State) error {
	if state.Project != d.project {
		return fmt.Errorf("unable to save the state of project %d in the directory of project %d", state.Project, d.project)
	}

	data, err := json.MarshalIndent(state, "", "\t")
	if err != nil {
		return err
	}

	f, err := d.dir.OpenFile(StateFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// Close releases any file handles or resources held by the project state
// directory.
func (d ProjectDir) Close() error {
	return d.dir.Close()
}

func openOrCreateRootInRoot(parent *os.Root, name string, perm os.FileMode) (*os.Root, error) {
	// Attempt to open an existing directory.
	child, err := parent.OpenRoot(name)
	if err == nil {
		return child, nil
	}

	// If the error is anything other than "not found", return it.
	if !os.IsNotExist(err) {
		return nil, err
	}

	// Attempt to create the directory.
	if err := parent.Mkdir(name, perm); err != nil {
		return nil, err
	}

	// Attempt to open the directory a second time.
	return parent.OpenRoot(name)
}
