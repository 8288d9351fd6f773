// Package scaffold sequences a project scaffold: resolve answers, refuse an
// existing target, confirm, copy the template, patch package.json, then
// optionally run the install and the project's tests.
//
// The steps run strictly in that order. Nothing is rolled back when a later
// step fails; the partially scaffolded directory is left for the user.
package scaffold
