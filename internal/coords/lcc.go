package coords

import "math"

// Ellipsoid is a reference ellipsoid given by its semi-major axis and inverse
// flattening. The axis unit is the unit of the projected coordinates.
type Ellipsoid struct {
	A    float64
	InvF float64
}

// GRS80 is the ellipsoid of ETRS89 and, at map precision, WGS84.
var GRS80 = Ellipsoid{A: 6378137, InvF: 298.257222101}

func (e Ellipsoid) ecc() float64 {
	f := 1 / e.InvF
	return math.Sqrt(2*f - f*f)
}

// LambertConformalConic is a two-standard-parallel Lambert Conformal Conic
// projection. Angles are in decimal degrees.
type LambertConformalConic struct {
	Ellipsoid Ellipsoid
	Lat1      float64 // first standard parallel
	Lat2      float64 // second standard parallel
	Lat0      float64 // latitude of false origin
	Lon0      float64 // longitude of false origin
	FalseE    float64
	FalseN    float64

	e, n, f, rho0 float64
}

// LEST97 is the Estonian national grid (EPSG:3301). Its GRS80 datum needs no
// shift to reach WGS84 at the precision published here.
var LEST97 = NewLambertConformalConic(
	GRS80,
	59+20.0/60,
	58,
	57+31.0/60+3.19415/3600,
	24,
	500000,
	6375000,
)

// NewLambertConformalConic precomputes the cone constants.
func NewLambertConformalConic(ell Ellipsoid, lat1, lat2, lat0, lon0, falseE, falseN float64) *LambertConformalConic {
	p := &LambertConformalConic{
		Ellipsoid: ell,
		Lat1:      lat1,
		Lat2:      lat2,
		Lat0:      lat0,
		Lon0:      lon0,
		FalseE:    falseE,
		FalseN:    falseN,
	}
	p.e = ell.ecc()

	phi1, phi2, phi0 := rad(lat1), rad(lat2), rad(lat0)
	m1, m2 := p.m(phi1), p.m(phi2)
	t1, t2, t0 := p.t(phi1), p.t(phi2), p.t(phi0)

	if lat1 == lat2 {
		p.n = math.Sin(phi1)
	} else {
		p.n = (math.Log(m1) - math.Log(m2)) / (math.Log(t1) - math.Log(t2))
	}
	p.f = m1 / (p.n * math.Pow(t1, p.n))
	p.rho0 = ell.A * p.f * math.Pow(t0, p.n)
	return p
}

func (p *LambertConformalConic) m(phi float64) float64 {
	s := math.Sin(phi)
	return math.Cos(phi) / math.Sqrt(1-p.e*p.e*s*s)
}

func (p *LambertConformalConic) t(phi float64) float64 {
	s := math.Sin(phi)
	return math.Tan(math.Pi/4-phi/2) / math.Pow((1-p.e*s)/(1+p.e*s), p.e/2)
}

// Forward projects geographic lon/lat to planar easting/northing.
func (p *LambertConformalConic) Forward(lon, lat float64) (x, y float64) {
	rho := p.Ellipsoid.A * p.f * math.Pow(p.t(rad(lat)), p.n)
	theta := p.n * rad(lon-p.Lon0)
	x = p.FalseE + rho*math.Sin(theta)
	y = p.FalseN + p.rho0 - rho*math.Cos(theta)
	return x, y
}

// Inverse converts planar easting/northing to geographic lon/lat.
func (p *LambertConformalConic) Inverse(x, y float64) (lon, lat float64) {
	dx := x - p.FalseE
	dy := p.rho0 - (y - p.FalseN)

	rho := math.Copysign(math.Hypot(dx, dy), p.n)
	if p.n < 0 {
		dx, dy = -dx, -dy
	}
	theta := math.Atan2(dx, dy)

	if rho == 0 {
		return p.Lon0, math.Copysign(90, p.n)
	}

	t := math.Pow(rho/(p.Ellipsoid.A*p.f), 1/p.n)
	phi := math.Pi/2 - 2*math.Atan(t)
	for iter := 0; iter < 15; iter++ {
		s := p.e * math.Sin(phi)
		next := math.Pi/2 - 2*math.Atan(t*math.Pow((1-s)/(1+s), p.e/2))
		if math.Abs(next-phi) < 1e-12 {
			phi = next
			break
		}
		phi = next
	}

	lon = deg(theta/p.n) + p.Lon0
	return lon, deg(phi)
}

func rad(d float64) float64 { return d * math.Pi / 180 }
func deg(r float64) float64 { return r * 180 / math.Pi }
