package v1alpha1

const (
	CategoryWebDevelopment   = "Web Development"
	CategoryGraphicsDesign   = "Graphics Design"
	CategoryDigitalMarketing = "Digital Marketing"
)

const (
	BidStatusPending    = "Pending"
	BidStatusInProgress = "In Progress"
	BidStatusCompleted  = "Completed"
	BidStatusRejected   = "Rejected"
)

const (
	SortAscending  = "asc"
	SortDescending = "dsc"
)
