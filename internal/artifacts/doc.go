// Package artifacts downloads the files a completed generation session links
// to. It treats every URI as opaque and never inspects content.
package artifacts
