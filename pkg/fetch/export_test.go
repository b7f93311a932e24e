package fetch

// Export some internal functions for testing

var SiteURL = siteURL
var NSites = len(sites)
