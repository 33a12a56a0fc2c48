package cmd

import (
	"fmt"

	"github.com/xaizek/dit/internal/project"
)

// cmdNew creates an empty item and prints its id, without requiring any
// key=value pairs: useful for scripted creation followed by a separate
// "set" invocation, distinct from "add".
func cmdNew(a *app, prj *project.Project, args []string) error {
	if len(args) != 0 {
		return fail("expected no arguments")
	}

	it, err := prj.Storage().Create()
	if err != nil {
		return err
	}

	fmt.Fprintln(a.stdout, it.ID())
	return nil
}
