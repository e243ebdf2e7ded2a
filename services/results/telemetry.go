package results

import "udemy-coupons/lib/telemetry"

var tracer = telemetry.Tracer("udemycoupons.services.results")
