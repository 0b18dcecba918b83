// Package ui is the Fyne desktop front-end. It fetches media info and runs a
// single download at a time through the download handler. Work runs on a
// background goroutine and results reach the widgets through fyne.Do.
package ui
