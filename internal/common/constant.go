package common

// GuestUserID scopes local records created while nobody is logged in.
// Guest rows never take part in synchronization.
const GuestUserID = "guest"
