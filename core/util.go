package core

import (
	"log"
	"os"
	"path/filepath"
)

// Getwd tries to find the project root (the directory holding go.mod).
// go-test changes the working directory to the test package being run, so the root is searched upwards.
func Getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	currDir := wd
	for {
		if fi, err := os.Stat(filepath.Join(currDir, "go.mod")); err == nil && !fi.IsDir() {
			return currDir
		}
		newDir := filepath.Dir(currDir)
		if newDir == string(os.PathSeparator) || newDir == currDir {
			return wd // not started from within the repo
		}
		currDir = newDir
	}
}
