package services

// Services defined in this package:
// - OfferingService: offering detail edits and status transitions
// - SessionService: session CRUD, status transitions and student detail views
// - AttendanceService: attendance confirmation for watched session videos
// - UploadService: pre-signed upload slots for session videos
