// Package handles turns binary payloads into short-lived, directly renderable
// display handles backed by scratch files.
//
// Every Acquire must be paired with a Release once the handle is no longer
// rendered; unreleased handles leak scratch space. Scope groups the handles of
// one render cycle so a view can release the previous cycle wholesale,
// regardless of exit path. Handles are never persisted and two acquisitions of
// the same payload yield independent handles.
package handles
