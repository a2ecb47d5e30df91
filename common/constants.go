package common

// Version is the build version reported in telemetry.
var Version = "v1.0.0"
