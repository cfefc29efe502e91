// Package handlers contains the HTTP handlers for the VOD server API.
//
// The API surface is small and splits into four groups:
//
//   - Transcode control: /transcode/request/{id} ensures a conversion
//     exists and reports its status; /transcode/playlist/{id} returns the
//     playlist URL once the conversion is ready.
//   - Segment delivery: /streams/{id}/{file} serves playlist and segment
//     files from the transcode cache. Every invalid request, whatever the
//     reason, is answered with the same opaque 400 so probing reveals
//     nothing about the cache layout.
//   - Notifications: /notifications upgrades to a websocket and pushes
//     ready events as conversions complete.
//   - Library and operations: /media listing and scanning, health probes,
//     and build information.
//
// Handlers depend on narrow interfaces ([Conductor], [Catalog]) so tests
// can exercise them without a running encoder.
package handlers
