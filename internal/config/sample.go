package config

// SampleConfig returns a fully commented configuration file with every
// option at its default.
func SampleConfig() string {
	return `# trackedit configuration
version: "1.0"

files:
  # Track being edited; x and y columns are required.
  input: input.csv
  # Written by save.
  output: output.csv
  # Read-only overlays. Missing files are skipped with a warning.
  inner_lane: lane/inner_lane_bound.csv
  outer_lane: lane/out_lane_bound.csv
  background: background.csv

editor:
  # A press closer than this (in data units) to a point grabs it.
  epsilon: 5
  # Spline smoothing factor, 0 (interpolate) .. 10.
  smoothing: 3
  smoothing_step: 0.5
  history_capacity: 20
  # Range resample takes this many points on each side of the anchor.
  window_radius: 10
  sample_count: 100
  watch_overlays: true
  watch_debounce: 200ms

track:
  # Columns parsed as numbers at load time; rows where they do not parse
  # are dropped.
  numeric_columns:
    - speed
  color_by: speed

output:
  default_format: text # text|json|markdown|csv
  color_mode: auto     # auto|always|never
  verbose: false
  no_emoji: false
  theme: default       # default|high-contrast|minimal

render:
  width: 1200
  height: 900
  margin: 40
  curve_samples: 1000
  point_radius: 3
  show_labels: false
`
}

// MinimalSampleConfig returns a short configuration with the settings most
// often changed.
func MinimalSampleConfig() string {
	return `version: "1.0"
files:
  input: input.csv
  output: output.csv
editor:
  smoothing: 3
`
}
