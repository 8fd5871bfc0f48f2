//go:build darwin

package main

import "golang.design/x/hotkey/mainthread"

func runOnMainThread(f func()) {
	mainthread.Init(f)
}
