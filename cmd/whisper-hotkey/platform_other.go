//go:build !darwin

package main

func runOnMainThread(f func()) {
	f()
}
