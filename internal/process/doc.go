// Package process runs the external commands a scaffold needs: the package
// manager install, the project's test suite, and git init. Commands run in
// the project directory with the terminal's standard streams attached.
package process
