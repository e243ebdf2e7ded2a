package scraper

import "udemy-coupons/lib/telemetry"

var tracer = telemetry.Tracer("udemycoupons.services.scraper")
var meter = telemetry.Meter("udemycoupons.services.scraper")

var pagesScanned, _ = meter.Int64Counter("pages_scanned")
var coursesProcessed, _ = meter.Int64Counter("courses_processed")
var couponsFound, _ = meter.Int64Counter("coupons_found")
var unitFailures, _ = meter.Int64Counter("unit_failures")
