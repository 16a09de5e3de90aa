// Package textutil provides small string helpers shared by the CLI and the
// generation workflow, chiefly turning video titles into safe file names.
package textutil
