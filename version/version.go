package version

// Version is the rolodex release, shown by 'rolodex --version'.
var Version = "0.1.0"
