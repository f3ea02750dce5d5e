package main

import (
	"context"
	"fmt"
	"strings"
)

type versionCmd struct{ *root }

func (v *versionCmd) Run(context.Context) error {
	fmt.Println(versionString(v.program))
	return nil
}

func versionString(program string) string {
	parts := []string{fmt.Sprintf("%s version %s", strings.TrimSuffix(program, " version"), version)}
	if commit != "" {
		parts = append(parts, "commit "+commit)
	}
	if date != "" {
		parts = append(parts, "built "+date)
	}
	return strings.Join(parts, ", ")
}
