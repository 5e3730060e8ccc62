package app

import "github.com/spf13/pflag"

// RegisterFlags registers all CLI flags on the given FlagSet
func RegisterFlags(flags *pflag.FlagSet) {
	flags.StringP("catalog-dir", "c", "", "Directory containing catalog_<YYYY>_<MM>.txt files")
	flags.StringP("snapshots", "s", "", "Path to college_snapshots.json")
	flags.StringP("duplicates", "d", "", "Path to degree_duplicates_master.json")
	flags.StringP("output-dir", "o", "", "Directory for run artifacts")
	flags.IntP("parallelism", "j", 0, "Maximum number of catalog files processed concurrently")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.Bool("search-enabled", true, "Build the course search index after aggregation")
	flags.Int("search-max-results", 0, "Maximum hits returned by course search")
}
