// Package templates locates the frontend and backend template trees and
// copies one of them into a new project directory. Templates are embedded in
// the binary; the templates_dir setting points at an on-disk replacement.
package templates
